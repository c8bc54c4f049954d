package prompts

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/egabank/ega/internal/model"
	"github.com/egabank/ega/internal/money"
	"github.com/egabank/ega/internal/validation"
)

// PromptAccountType prompts for account type selection
func PromptAccountType(current model.AccountType) (model.AccountType, error) {
	selected := current
	if selected == "" {
		selected = model.AccountChecking
	}

	err := huh.NewSelect[model.AccountType]().
		Title("Account type:").
		Options(
			huh.NewOption("Courant (checking)", model.AccountChecking),
			huh.NewOption("Épargne (savings)", model.AccountSavings),
		).
		Value(&selected).
		Run()
	if err != nil {
		return "", fmt.Errorf("input cancelled: %w", err)
	}
	return selected, nil
}

// PromptClientSelection lets the user pick the owner of an account.
func PromptClientSelection(title string, clients []model.Client) (model.Client, error) {
	if len(clients) == 0 {
		return model.Client{}, model.ErrClientNotFound
	}

	byID := make(map[string]model.Client, len(clients))
	options := make([]huh.Option[string], 0, len(clients))
	for _, c := range clients {
		byID[c.ID] = c
		options = append(options, huh.NewOption(fmt.Sprintf("%s (%s)", c.FullName(), c.ID), c.ID))
	}

	var selected string
	err := huh.NewSelect[string]().
		Title(title).
		Options(options...).
		Value(&selected).
		Height(10).
		Run()
	if err != nil {
		return model.Client{}, fmt.Errorf("input cancelled: %w", err)
	}
	return byID[selected], nil
}

// PromptAccountSelection lets the user pick an account, showing balances.
func PromptAccountSelection(title string, accounts []model.Account, currency string) (model.Account, error) {
	if len(accounts) == 0 {
		return model.Account{}, model.ErrAccountNotFound
	}

	byNumber := make(map[string]model.Account, len(accounts))
	options := make([]huh.Option[string], 0, len(accounts))
	for _, acc := range accounts {
		byNumber[acc.Number] = acc
		label := fmt.Sprintf("%s  %-8s %s", acc.Number, acc.Type.Label(), money.FormatWithCurrency(acc.Balance, currency))
		options = append(options, huh.NewOption(label, acc.Number))
	}

	var selected string
	err := huh.NewSelect[string]().
		Title(title).
		Options(options...).
		Value(&selected).
		Height(10).
		Run()
	if err != nil {
		return model.Account{}, fmt.Errorf("input cancelled: %w", err)
	}
	return byNumber[selected], nil
}

// PromptMoney prompts for a positive amount and returns minor units.
func PromptMoney(message string, currency string) (int64, error) {
	raw, err := PromptAmount(message, fmt.Sprintf("In %s, up to two decimals", currency), validation.ValidateAmount)
	if err != nil {
		return 0, err
	}
	return money.ParsePositive(raw)
}
