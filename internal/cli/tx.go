package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/momai-ledger/momai/internal/domain"
	"github.com/momai-ledger/momai/internal/payment"
)

func init() {
	rootCmd.AddCommand(txCmd)
	txCmd.AddCommand(txSaleCmd)
	txCmd.AddCommand(txPaymentCmd)
	txCmd.AddCommand(txListCmd)

	txSaleCmd.Flags().StringP("desc", "d", "", "Description of the sale")
	txPaymentCmd.Flags().StringP("desc", "d", "", "Description of the payment")
}

var txCmd = &cobra.Command{
	Use:   "tx",
	Short: "Record and inspect transactions",
	Long: `Record sales (credit) and payments against a customer. The ledger
keeps the running balance: due = total sales - total paid.`,
}

// ─── tx sale ────────────────────────────────────────────────────────────────

var txSaleCmd = &cobra.Command{
	Use:   "sale CUSTOMER_ID AMOUNT",
	Short: "Record a credit sale",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return recordTransaction(cmd, args, domain.TxSale)
	},
}

// ─── tx payment ─────────────────────────────────────────────────────────────

var txPaymentCmd = &cobra.Command{
	Use:   "payment CUSTOMER_ID AMOUNT",
	Short: "Record a payment received",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return recordTransaction(cmd, args, domain.TxPayment)
	},
}

func recordTransaction(cmd *cobra.Command, args []string, txType domain.TransactionType) error {
	amount, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q", args[1])
	}
	description, _ := cmd.Flags().GetString("desc")

	store, db, err := openLedger()
	if err != nil {
		return err
	}
	defer closeLedger(store, db)

	tx, err := store.AddTransaction(args[0], txType, amount, description)
	if err != nil {
		return err
	}

	customer, err := store.Customer(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✅ %s of %s recorded for %s.\n", tx.Description, payment.FormatINR(tx.Amount), customer.Name)
	fmt.Fprintf(os.Stdout, "   Current due: %s\n", payment.FormatINR(customer.Due))
	return nil
}

// ─── tx list ────────────────────────────────────────────────────────────────

var txListCmd = &cobra.Command{
	Use:   "list CUSTOMER_ID",
	Short: "Show a customer's transaction history",
	Args:  cobra.ExactArgs(1),
	RunE:  runTxList,
}

func runTxList(cmd *cobra.Command, args []string) error {
	store, db, err := openLedger()
	if err != nil {
		return err
	}
	defer closeLedger(store, db)

	customer, err := store.Customer(args[0])
	if err != nil {
		return err
	}

	txs := store.TransactionsFor(customer.ID)
	if len(txs) == 0 {
		fmt.Fprintf(os.Stdout, "No transactions for %s yet.\n", customer.Name)
		return nil
	}

	fmt.Fprintf(os.Stdout, "%s — due %s\n", customer.Name, payment.FormatINR(customer.Due))
	for _, tx := range txs {
		sign := "+"
		if tx.Type == domain.TxPayment {
			sign = "-"
		}
		fmt.Fprintf(os.Stdout, "  %s  %s%s  %s\n",
			tx.Date.Format("02 Jan 2006 15:04"), sign, payment.FormatINR(tx.Amount), tx.Description)
	}
	return nil
}
