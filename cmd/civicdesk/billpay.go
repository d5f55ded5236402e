package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/k1networth/civicdesk/internal/upi"
)

func newPinCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "pin <code>",
		Short: "Look up a postal code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hint := a.pin.Resolve(cmd.Context(), args[0])
			if hint == "" {
				fmt.Println("(enter at least 6 characters)")
				return nil
			}
			fmt.Println(hint)
			return nil
		},
	}
}

func newUpiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upi",
		Short: "Bill payment demo: UPI links and QR codes",
	}

	cmd.AddCommand(
		newUpiBillsCmd(),
		newUpiLinkCmd(),
		newUpiQRCmd(),
	)

	return cmd
}

func newUpiBillsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bills [query]",
		Short: "List payable bill types",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := ""
			if len(args) > 0 {
				q = args[0]
			}
			for _, b := range upi.FilterCatalog(q) {
				var labels []string
				for _, f := range b.Fields {
					labels = append(labels, f.Label)
				}
				fmt.Printf("%s\t%s\t(%s)\n", b.Key, b.Name, strings.Join(labels, ", "))
			}
			return nil
		},
	}
}

func buildPayment(bill, pa, pn, amount, note string, extras []string) (upi.Payment, error) {
	b, ok := upi.FindBillType(bill)
	if !ok {
		return upi.Payment{}, fmt.Errorf("unknown bill type %q (see `civicdesk upi bills`)", bill)
	}

	p := upi.Payment{
		Bill:      b,
		PayeeVPA:  pa,
		PayeeName: pn,
		Amount:    amount,
		Note:      note,
	}
	for _, e := range extras {
		k, v, ok := strings.Cut(e, "=")
		if !ok {
			return upi.Payment{}, fmt.Errorf("bad --extra %q, want key=value", e)
		}
		p.Extras = append(p.Extras, upi.Extra{Key: k, Value: v})
	}
	return p, nil
}

func addPaymentFlags(cmd *cobra.Command, bill, pa, pn, amount, note *string, extras *[]string) {
	cmd.Flags().StringVar(bill, "bill", "", "bill type key (see `civicdesk upi bills`)")
	cmd.Flags().StringVar(pa, "pa", "demo-merchant@upi", "payee UPI id (VPA)")
	cmd.Flags().StringVar(pn, "pn", upi.DefaultPayeeName, "payee name")
	cmd.Flags().StringVar(amount, "amount", "", "amount in INR")
	cmd.Flags().StringVar(note, "note", "", "transaction note")
	cmd.Flags().StringArrayVar(extras, "extra", nil, "bill identifier as key=value (repeatable)")
	_ = cmd.MarkFlagRequired("bill")
}

func newUpiLinkCmd() *cobra.Command {
	var bill, pa, pn, amount, note string
	var extras []string

	cmd := &cobra.Command{
		Use:   "link",
		Short: "Build a upi://pay deep link",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := buildPayment(bill, pa, pn, amount, note, extras)
			if err != nil {
				return err
			}
			link, err := p.Link()
			if err != nil {
				return err
			}
			fmt.Println(link)
			return nil
		},
	}

	addPaymentFlags(cmd, &bill, &pa, &pn, &amount, &note, &extras)

	return cmd
}

func newUpiQRCmd() *cobra.Command {
	var bill, pa, pn, amount, note, out string
	var size int
	var extras []string

	cmd := &cobra.Command{
		Use:   "qr",
		Short: "Render the payment link as a QR PNG",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := buildPayment(bill, pa, pn, amount, note, extras)
			if err != nil {
				return err
			}
			link, err := p.Link()
			if err != nil {
				return err
			}
			png, err := upi.QRCodePNG(link, size)
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, png, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Printf("wrote %s (%d bytes)\n", out, len(png))
			return nil
		},
	}

	addPaymentFlags(cmd, &bill, &pa, &pn, &amount, &note, &extras)
	cmd.Flags().StringVar(&out, "out", "upi.png", "output PNG path")
	cmd.Flags().IntVar(&size, "size", 256, "image edge size in pixels")

	return cmd
}
