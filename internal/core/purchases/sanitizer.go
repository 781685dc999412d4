package purchases

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

// purchaseFields mirrors the command's validatable fields for struct-tag
// validation. The amount is checked by hand below; the validator has no
// notion of decimal.Decimal.
type purchaseFields struct {
	Description     string    `validate:"required,max=50"`
	TransactionDate time.Time `validate:"required"`
}

// ValidatePurchaseFields checks a purchase's fields and returns per-field
// human-readable messages, empty when everything is valid. The description
// is trimmed before length validation.
func ValidatePurchaseFields(description string, transactionDate time.Time, amount decimal.Decimal) map[string][]string {
	fieldErrors := make(map[string][]string)

	err := validate.Struct(purchaseFields{
		Description:     strings.TrimSpace(description),
		TransactionDate: transactionDate,
	})
	if err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			for _, fieldError := range validationErrors {
				switch fieldError.StructField() {
				case "Description":
					if fieldError.Tag() == "max" {
						fieldErrors["description"] = append(fieldErrors["description"], "Description must not exceed 50 characters.")
					} else {
						fieldErrors["description"] = append(fieldErrors["description"], "Description is required.")
					}
				case "TransactionDate":
					fieldErrors["transactionDate"] = append(fieldErrors["transactionDate"], "Transaction date is required.")
				}
			}
		}
	}

	if amount.LessThanOrEqual(decimal.Zero) {
		fieldErrors["amount"] = append(fieldErrors["amount"], "Amount must be a positive value.")
	} else if !amount.Equal(amount.Round(2)) {
		fieldErrors["amount"] = append(fieldErrors["amount"], "Amount must be rounded to the nearest cent (two decimal places).")
	}

	return fieldErrors
}

// CreatePurchaseSanitizer normalizes CreatePurchaseCommand values before
// their handler runs: the description is trimmed and the amount rounded to 2
// decimals (half away from zero), and the normalized command is re-validated.
type CreatePurchaseSanitizer struct{}

func (CreatePurchaseSanitizer) Sanitize(cmd CreatePurchaseCommand) (CreatePurchaseCommand, map[string][]string) {
	trimmed := strings.TrimSpace(cmd.Description)
	rounded := cmd.Amount.Round(2)

	if fieldErrors := ValidatePurchaseFields(trimmed, cmd.TransactionDate, rounded); len(fieldErrors) > 0 {
		return cmd, fieldErrors
	}

	cmd.Description = trimmed
	cmd.Amount = rounded
	return cmd, nil
}
