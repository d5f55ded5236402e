package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/k1networth/civicdesk/internal/request"
)

func newRequestsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "requests",
		Short: "Manage service requests",
	}

	cmd.AddCommand(
		newRequestsListCmd(a),
		newRequestsCreateCmd(a),
		newRequestsUpdateCmd(a),
		newRequestsDeleteCmd(a),
	)

	return cmd
}

func newRequestsListCmd(a *app) *cobra.Command {
	var q string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List service requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.manager.SetSearchTerm(cmd.Context(), q); err != nil {
				return err
			}
			printRequests(a.manager.List())
			return nil
		},
	}

	cmd.Flags().StringVarP(&q, "query", "q", "", "search name / email / service / status")

	return cmd
}

func newRequestsCreateCmd(a *app) *cobra.Command {
	var draft request.ServiceRequest

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a service request",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.manager.BeginCreate()
			if draft.Status == "" {
				draft.Status = request.StatusPending
			}
			if !draft.Status.Valid() {
				return fmt.Errorf("invalid status %q", draft.Status)
			}
			a.manager.SetDraft(draft)

			err := a.manager.Submit(cmd.Context())
			a.printToast()
			return err
		},
	}

	addDraftFlags(cmd, &draft)

	return cmd
}

func newRequestsUpdateCmd(a *app) *cobra.Command {
	var draft request.ServiceRequest

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a service request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.manager.Refresh(cmd.Context()); err != nil {
				return err
			}

			a.manager.BeginEdit(args[0])
			if a.manager.EditTargetID() == "" {
				return fmt.Errorf("request %s not found", args[0])
			}

			merged := a.manager.Draft()
			applyDraftOverrides(cmd, &merged, draft)
			if !merged.Status.Valid() {
				return fmt.Errorf("invalid status %q", merged.Status)
			}
			a.manager.SetDraft(merged)

			err := a.manager.Submit(cmd.Context())
			a.printToast()
			return err
		},
	}

	addDraftFlags(cmd, &draft)

	return cmd
}

func newRequestsDeleteCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a service request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes && !confirm(fmt.Sprintf("Delete request %s?", args[0])) {
				fmt.Println("aborted")
				return nil
			}

			err := a.manager.Remove(cmd.Context(), args[0])
			a.printToast()
			return err
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	return cmd
}

func addDraftFlags(cmd *cobra.Command, d *request.ServiceRequest) {
	cmd.Flags().StringVar(&d.Name, "name", "", "citizen name")
	cmd.Flags().StringVar(&d.Email, "email", "", "contact email")
	cmd.Flags().StringVar(&d.Phone, "phone", "", "contact phone (7-15 digits)")
	cmd.Flags().StringVar(&d.ServiceType, "service", "", "service type, e.g. Birth Certificate")
	cmd.Flags().StringVar((*string)(&d.Status), "status", "", "pending | in_progress | resolved")
}

// applyDraftOverrides copies only the flags the user actually set onto the
// loaded draft, so an update does not blank out untouched fields.
func applyDraftOverrides(cmd *cobra.Command, dst *request.ServiceRequest, src request.ServiceRequest) {
	if cmd.Flags().Changed("name") {
		dst.Name = src.Name
	}
	if cmd.Flags().Changed("email") {
		dst.Email = src.Email
	}
	if cmd.Flags().Changed("phone") {
		dst.Phone = src.Phone
	}
	if cmd.Flags().Changed("service") {
		dst.ServiceType = src.ServiceType
	}
	if cmd.Flags().Changed("status") {
		dst.Status = src.Status
	}
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	sc := bufio.NewScanner(os.Stdin)
	if !sc.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(sc.Text()))
	return answer == "y" || answer == "yes"
}

func printRequests(items []request.ServiceRequest) {
	if len(items) == 0 {
		fmt.Println("No records")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tPHONE\tSERVICE\tSTATUS")
	for _, it := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			it.ID, it.Name, it.Email, it.Phone, it.ServiceType, it.Status)
	}
	_ = w.Flush()
}
