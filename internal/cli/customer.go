package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/momai-ledger/momai/internal/payment"
)

func init() {
	rootCmd.AddCommand(customerCmd)
	customerCmd.AddCommand(customerAddCmd)
	customerCmd.AddCommand(customerListCmd)
	customerCmd.AddCommand(customerUpdateCmd)
	customerCmd.AddCommand(customerToggleCmd)
	customerCmd.AddCommand(customerRemoveCmd)

	customerListCmd.Flags().BoolP("all", "a", false, "Include deactivated customers")
	customerUpdateCmd.Flags().String("name", "", "New customer name")
	customerUpdateCmd.Flags().String("phone", "", "New customer phone")
}

var customerCmd = &cobra.Command{
	Use:   "customer",
	Short: "Manage customers",
	Long: `Manage the customer book. Phone numbers are normalized to +91 unless
another country code is given, and each phone can appear only once.`,
}

// ─── customer add ───────────────────────────────────────────────────────────

var customerAddCmd = &cobra.Command{
	Use:   "add NAME PHONE",
	Short: "Add a customer",
	Args:  cobra.ExactArgs(2),
	RunE:  runCustomerAdd,
}

func runCustomerAdd(cmd *cobra.Command, args []string) error {
	store, db, err := openLedger()
	if err != nil {
		return err
	}
	defer closeLedger(store, db)

	customer, err := store.AddCustomer(args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✅ Customer %q added (%s)\n", customer.Name, customer.Phone)
	return nil
}

// ─── customer list ──────────────────────────────────────────────────────────

var customerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List customers with their dues",
	RunE:  runCustomerList,
}

func runCustomerList(cmd *cobra.Command, args []string) error {
	includeInactive, _ := cmd.Flags().GetBool("all")

	store, db, err := openLedger()
	if err != nil {
		return err
	}
	defer closeLedger(store, db)

	customers := store.Customers(includeInactive)
	if len(customers) == 0 {
		fmt.Fprintln(os.Stdout, "No customers yet.")
		fmt.Fprintln(os.Stdout, "Use 'momai customer add NAME PHONE' to add one.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "Customers (%d):\n", len(customers))
	for _, c := range customers {
		status := ""
		if !c.IsActive {
			status = "  [inactive]"
		}
		fmt.Fprintf(os.Stdout, "  • %s  %s  due %s%s\n", c.Name, c.Phone, payment.FormatINR(c.Due), status)
		fmt.Fprintf(os.Stdout, "    id: %s\n", c.ID)
	}
	return nil
}

// ─── customer update ────────────────────────────────────────────────────────

var customerUpdateCmd = &cobra.Command{
	Use:   "update CUSTOMER_ID",
	Short: "Change a customer's name or phone",
	Args:  cobra.ExactArgs(1),
	RunE:  runCustomerUpdate,
}

func runCustomerUpdate(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("name")
	phone, _ := cmd.Flags().GetString("phone")
	if name == "" && phone == "" {
		return fmt.Errorf("nothing to update: pass --name and/or --phone")
	}

	store, db, err := openLedger()
	if err != nil {
		return err
	}
	defer closeLedger(store, db)

	current, err := store.Customer(args[0])
	if err != nil {
		return err
	}
	if name == "" {
		name = current.Name
	}
	if phone == "" {
		phone = current.Phone
	}

	customer, err := store.UpdateCustomer(args[0], name, phone)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✅ Customer updated: %s (%s)\n", customer.Name, customer.Phone)
	return nil
}

// ─── customer toggle ────────────────────────────────────────────────────────

var customerToggleCmd = &cobra.Command{
	Use:   "toggle CUSTOMER_ID",
	Short: "Activate or deactivate a customer",
	Long: `Flip a customer between active and inactive. Deactivated customers
keep their history and balance but are hidden from listings and cannot
receive reminders.`,
	Args: cobra.ExactArgs(1),
	RunE: runCustomerToggle,
}

func runCustomerToggle(cmd *cobra.Command, args []string) error {
	store, db, err := openLedger()
	if err != nil {
		return err
	}
	defer closeLedger(store, db)

	customer, err := store.ToggleCustomerStatus(args[0])
	if err != nil {
		return err
	}
	state := "deactivated"
	if customer.IsActive {
		state = "activated"
	}
	fmt.Fprintf(os.Stdout, "✅ Customer %q %s.\n", customer.Name, state)
	return nil
}

// ─── customer remove ────────────────────────────────────────────────────────

var customerRemoveCmd = &cobra.Command{
	Use:   "remove CUSTOMER_ID",
	Short: "Delete a customer and all their transactions",
	Args:  cobra.ExactArgs(1),
	RunE:  runCustomerRemove,
}

func runCustomerRemove(cmd *cobra.Command, args []string) error {
	store, db, err := openLedger()
	if err != nil {
		return err
	}
	defer closeLedger(store, db)

	if err := store.DeleteCustomer(args[0]); err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, "✅ Customer removed along with their transactions.")
	return nil
}
