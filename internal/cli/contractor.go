package cli

import (
	"context"
	"fmt"

	"github.com/andy/invoicer/internal/domain"
	"github.com/spf13/cobra"
)

var contractorCmd = &cobra.Command{
	Use:   "contractor",
	Short: "Show or set the contractor profile printed on documents",
}

var contractorShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the contractor profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := appInstance.ContractorService.Get(context.Background())
		if err != nil {
			if domain.IsNotFound(err) {
				fmt.Println("No contractor profile yet. Run 'invoicer contractor set --name ...'")
				return nil
			}
			return fmt.Errorf("failed to load contractor: %w", err)
		}

		fmt.Printf("Name:            %s\n", c.Name)
		fmt.Printf("Address:         %s\n", c.Address)
		fmt.Printf("Email:           %s\n", c.Email)
		fmt.Printf("Phone:           %s\n", c.Phone)
		fmt.Printf("Tax ID:          %s\n", c.TaxID)
		fmt.Printf("Personal Tax ID: %s\n", c.PersonalTaxID)
		return nil
	},
}

var contractorSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Create or update the contractor profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		c, err := appInstance.ContractorService.Get(ctx)
		switch {
		case domain.IsNotFound(err):
			c = domain.NewContractor("")
		case err != nil:
			return fmt.Errorf("failed to load contractor: %w", err)
		}

		flags := cmd.Flags()
		fields := map[string]*string{
			"name":            &c.Name,
			"address":         &c.Address,
			"email":           &c.Email,
			"phone":           &c.Phone,
			"tax-id":          &c.TaxID,
			"personal-tax-id": &c.PersonalTaxID,
		}
		for flag, dst := range fields {
			if flags.Changed(flag) {
				*dst, _ = flags.GetString(flag)
			}
		}

		if err := appInstance.ContractorService.Save(ctx, c); err != nil {
			return fmt.Errorf("failed to save contractor: %w", err)
		}

		fmt.Printf("✓ Contractor profile saved: %s\n", c.Name)
		return nil
	},
}

func init() {
	contractorCmd.AddCommand(contractorShowCmd)
	contractorCmd.AddCommand(contractorSetCmd)

	contractorSetCmd.Flags().String("name", "", "Business or personal name")
	contractorSetCmd.Flags().String("address", "", "Postal address")
	contractorSetCmd.Flags().String("email", "", "Email address")
	contractorSetCmd.Flags().String("phone", "", "Phone number")
	contractorSetCmd.Flags().String("tax-id", "", "Business tax ID")
	contractorSetCmd.Flags().String("personal-tax-id", "", "Personal tax ID")
}
