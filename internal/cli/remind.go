package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/momai-ledger/momai/internal/domain"
	"github.com/momai-ledger/momai/internal/infra/sqlite"
	"github.com/momai-ledger/momai/internal/payment"
)

func init() {
	rootCmd.AddCommand(remindCmd)
}

var remindCmd = &cobra.Command{
	Use:   "remind CUSTOMER_ID",
	Short: "Prepare a payment reminder for a customer",
	Long: `Compose a payment reminder with the customer's pending balance and
print the WhatsApp link, UPI deep link and QR image URL to send it.`,
	Args: cobra.ExactArgs(1),
	RunE: runRemind,
}

func runRemind(cmd *cobra.Command, args []string) error {
	store, db, err := openLedger()
	if err != nil {
		return err
	}
	defer closeLedger(store, db)

	customer, err := store.Customer(args[0])
	if err != nil {
		return err
	}
	if !customer.IsActive {
		return domain.ErrCustomerInactive
	}

	businessName, _ := db.GetSetting(sqlite.SettingBusinessName)
	upiID, _ := db.GetSetting(sqlite.SettingUPIID)

	message := payment.ReminderMessage(customer, businessName, upiID)
	upiLink := payment.UPILink(upiID, businessName, customer.Due)

	fmt.Fprintln(os.Stdout, message)
	fmt.Fprintln(os.Stdout, "")
	fmt.Fprintf(os.Stdout, "WhatsApp: %s\n", payment.WhatsAppLink(customer, message))
	if upiLink != "" {
		fmt.Fprintf(os.Stdout, "UPI link: %s\n", upiLink)
		fmt.Fprintf(os.Stdout, "QR image: %s\n", payment.QRImageURL(upiLink))
	}
	return nil
}
