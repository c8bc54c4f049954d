package prompts

import (
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/egabank/ega/internal/constants"
	"github.com/egabank/ega/internal/model"
	"github.com/egabank/ega/internal/validation"
)

// PromptClientForm asks for every identity field. Fields of current are
// used as initial values, so the same form serves create and update.
func PromptClientForm(current model.Client) (model.Client, error) {
	c := current
	birth := ""
	if !current.BirthDate.IsZero() {
		birth = current.BirthDate.Format(constants.DateFormat)
	}
	gender := current.Gender
	if gender == "" {
		gender = "M"
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Last name:").Value(&c.LastName).Validate(validation.ValidateLastName),
			huh.NewInput().Title("First name:").Value(&c.FirstName).Validate(validation.RequiredField("first name")),
			huh.NewInput().Title("Birth date (YYYY-MM-DD):").Value(&birth).Validate(validation.BirthDate),
			huh.NewSelect[string]().Title("Gender:").
				Options(huh.NewOption("Masculin", "M"), huh.NewOption("Féminin", "F")).
				Value(&gender),
		),
		huh.NewGroup(
			huh.NewInput().Title("Address:").Value(&c.Address).Validate(validation.RequiredField("address")),
			huh.NewInput().Title("Phone:").Value(&c.Phone).Validate(validation.RequiredField("phone")),
			huh.NewInput().Title("Nationality:").Value(&c.Nationality),
			huh.NewInput().Title("Email:").Description("Optional").Value(&c.Email).Validate(validation.OptionalEmail),
		),
	)
	if err := form.Run(); err != nil {
		return model.Client{}, err
	}

	d, err := time.Parse(constants.DateFormat, strings.TrimSpace(birth))
	if err != nil {
		return model.Client{}, err
	}
	c.BirthDate = d
	c.Gender = gender
	return c, nil
}
