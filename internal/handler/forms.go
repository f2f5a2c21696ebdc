package handler

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/shopspring/decimal"

	"github.com/gincana/placar/internal/domain"
)

var (
	integerRe = regexp.MustCompile(`^\d+$`)
	decimalRe = regexp.MustCompile(`^\d+([.,]\d+)?$`)
)

// loginForm is the body of POST /
type loginForm struct {
	Username string `json:"user"`
	Password string `json:"senha"`
}

func (f *loginForm) Validate() error {
	return validation.ValidateStruct(f,
		validation.Field(&f.Username, validation.Required),
		validation.Field(&f.Password, validation.Required),
	)
}

// eventForm is the body of POST /eventos
type eventForm struct {
	Name   string `json:"nome"`
	Points string `json:"pontos"`
	Team   string `json:"equipe"`
}

func (f *eventForm) Validate() error {
	return validation.ValidateStruct(f,
		validation.Field(&f.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&f.Points, validation.Required, validation.Match(integerRe).Error("must be a whole number of zero or more")),
		validation.Field(&f.Team, validation.Required),
	)
}

// pointsForm is the body of POST /pontos
type pointsForm struct {
	Team   string `json:"equipe"`
	Points string `json:"pontos"`
}

func (f *pointsForm) Validate() error {
	return validation.ValidateStruct(f,
		validation.Field(&f.Team, validation.Required),
		validation.Field(&f.Points, validation.Required, validation.Match(integerRe).Error("must be a whole number of zero or more")),
	)
}

// contributionForm is the body of POST /financeiro
type contributionForm struct {
	Date  string `json:"data"`
	Name  string `json:"nome"`
	Value string `json:"valor"`
	Team  string `json:"equipe"`
}

func (f *contributionForm) Validate() error {
	return validation.ValidateStruct(f,
		validation.Field(&f.Date, validation.Required, validation.Date(domain.DateLayout).Error("must be a date in YYYY-MM-DD format")),
		validation.Field(&f.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&f.Value, validation.Required, validation.Match(decimalRe).Error("must be an amount of zero or more")),
		validation.Field(&f.Team, validation.Required),
	)
}

// userForm is the body of POST /usuarios
type userForm struct {
	Username string `json:"user"`
	Password string `json:"senha"`
	Role     string `json:"perfil"`
}

func (f *userForm) Validate() error {
	return validation.ValidateStruct(f,
		validation.Field(&f.Username, validation.Required, validation.Length(1, 100)),
		validation.Field(&f.Password, validation.Required),
		validation.Field(&f.Role, validation.Required, validation.In(roleValues()...)),
	)
}

func roleValues() []interface{} {
	values := make([]interface{}, len(domain.Roles))
	for i, r := range domain.Roles {
		values[i] = string(r)
	}
	return values
}

func formValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.PostFormValue(key))
}

func parseLoginForm(r *http.Request) (*loginForm, error) {
	f := &loginForm{
		Username: formValue(r, "user"),
		Password: r.PostFormValue("senha"),
	}
	return f, toValidationError(f.Validate())
}

func parseEventForm(r *http.Request) (name string, points int64, team string, err error) {
	f := &eventForm{
		Name:   formValue(r, "nome"),
		Points: formValue(r, "pontos"),
		Team:   formValue(r, "equipe"),
	}
	if err := toValidationError(f.Validate()); err != nil {
		return "", 0, "", err
	}
	points, err = parsePoints(f.Points)
	if err != nil {
		return "", 0, "", err
	}
	return f.Name, points, f.Team, nil
}

func parsePointsForm(r *http.Request) (team string, points int64, err error) {
	f := &pointsForm{
		Team:   formValue(r, "equipe"),
		Points: formValue(r, "pontos"),
	}
	if err := toValidationError(f.Validate()); err != nil {
		return "", 0, err
	}
	points, err = parsePoints(f.Points)
	if err != nil {
		return "", 0, err
	}
	return f.Team, points, nil
}

type contribution struct {
	date  time.Time
	name  string
	value decimal.Decimal
	team  string
}

func parseContributionForm(r *http.Request) (*contribution, error) {
	f := &contributionForm{
		Date:  formValue(r, "data"),
		Name:  formValue(r, "nome"),
		Value: formValue(r, "valor"),
		Team:  formValue(r, "equipe"),
	}
	if err := toValidationError(f.Validate()); err != nil {
		return nil, err
	}

	date, err := time.Parse(domain.DateLayout, f.Date)
	if err != nil {
		return nil, domain.NewValidationError("data", "must be a date in YYYY-MM-DD format")
	}
	value, err := decimal.NewFromString(strings.Replace(f.Value, ",", ".", 1))
	if err != nil {
		return nil, domain.NewValidationError("valor", "must be an amount of zero or more")
	}
	return &contribution{date: date, name: f.Name, value: value, team: f.Team}, nil
}

func parseUserForm(r *http.Request) (*userForm, error) {
	f := &userForm{
		Username: formValue(r, "user"),
		Password: r.PostFormValue("senha"),
		Role:     formValue(r, "perfil"),
	}
	return f, toValidationError(f.Validate())
}

func parsePoints(s string) (int64, error) {
	points, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, domain.NewValidationError("pontos", "must be a whole number of zero or more")
	}
	if points > domain.MaxPointsPerEntry {
		return 0, domain.NewValidationError("pontos", fmt.Sprintf("must not exceed %d", domain.MaxPointsPerEntry))
	}
	return points, nil
}

// toValidationError reduces ozzo's field map to the first field, in name order
func toValidationError(err error) error {
	if err == nil {
		return nil
	}
	var errs validation.Errors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return err
	}

	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return domain.NewValidationError(fields[0], errs[fields[0]].Error())
}
