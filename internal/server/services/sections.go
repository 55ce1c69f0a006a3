package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/studiosite/internal/common"
)

// Structured section keys. Every other key holds plain text.
const (
	SectionServices    = "services"
	SectionPortfolio   = "portfolio"
	SectionContactInfo = "contact_info"
)

type ServiceItem struct {
	ID          int    `json:"id"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type PortfolioItem struct {
	ID          int    `json:"id"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

type ContactInfo struct {
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

var sectionSchemas = map[string]func(raw string) error{
	SectionServices:    validateList[ServiceItem],
	SectionPortfolio:   validateList[PortfolioItem],
	SectionContactInfo: validateObject[ContactInfo],
}

// ValidateSection checks raw against the schema registered for key. Keys
// without a schema accept any text.
func ValidateSection(key, raw string) error {
	check, ok := sectionSchemas[key]
	if !ok {
		return nil
	}
	if err := check(raw); err != nil {
		return fmt.Errorf("section %s: %w", key, err)
	}
	return nil
}

func validateList[T any](raw string) error {
	var items []T
	if err := decodeStrict(raw, &items); err != nil {
		return err
	}
	if items == nil {
		return fmt.Errorf("%w: expected a JSON array", common.ErrValidation)
	}
	for i := range items {
		if err := validateStruct(items[i]); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	return nil
}

func validateObject[T any](raw string) error {
	var v *T
	if err := decodeStrict(raw, &v); err != nil {
		return err
	}
	if v == nil {
		return fmt.Errorf("%w: expected a JSON object", common.ErrValidation)
	}
	return validateStruct(v)
}

func decodeStrict(raw string, dst any) error {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", common.ErrValidation, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: unexpected data after JSON value", common.ErrValidation)
	}
	return nil
}
