// Package taxtable loads salary and wages tax schedules from YAML files so a
// new IRC table can be deployed without a release.
package taxtable

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/lexpractice/lexledger/internal/domain"
)

// File is the on-disk shape of a schedule. Amounts are strings so they parse
// exactly. A bracket without up_to is the open-ended top bracket.
type File struct {
	Name              string        `yaml:"name"`
	TaxFreeThreshold  string        `yaml:"tax_free_threshold"`
	EmployeeSuperRate string        `yaml:"employee_super_rate"`
	EmployerSuperRate string        `yaml:"employer_super_rate"`
	Brackets          []BracketFile `yaml:"brackets"`
}

// BracketFile is one marginal band. UpTo is measured in taxable income above
// the threshold.
type BracketFile struct {
	UpTo string `yaml:"up_to,omitempty"`
	Rate string `yaml:"rate"`
}

// LoadFile reads a schedule from path.
func LoadFile(path string) (*domain.TaxSchedule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open tax schedule: %w", err)
	}
	defer f.Close()

	schedule, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return schedule, nil
}

// Load parses and validates a schedule.
func Load(r io.Reader) (*domain.TaxSchedule, error) {
	var file File

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode tax schedule: %w", err)
	}

	return file.Schedule()
}

// Schedule converts the file into a validated domain schedule.
func (f File) Schedule() (*domain.TaxSchedule, error) {
	if f.Name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidTaxSchedule)
	}

	threshold, err := parseAmount("tax_free_threshold", f.TaxFreeThreshold)
	if err != nil {
		return nil, err
	}
	employeeRate, err := parseAmount("employee_super_rate", f.EmployeeSuperRate)
	if err != nil {
		return nil, err
	}
	employerRate, err := parseAmount("employer_super_rate", f.EmployerSuperRate)
	if err != nil {
		return nil, err
	}

	tiers := make([]domain.TaxTier, len(f.Brackets))
	for i, b := range f.Brackets {
		rate, err := parseAmount(fmt.Sprintf("brackets[%d].rate", i), b.Rate)
		if err != nil {
			return nil, err
		}
		tiers[i].Rate = rate

		if b.UpTo != "" {
			limit, err := parseAmount(fmt.Sprintf("brackets[%d].up_to", i), b.UpTo)
			if err != nil {
				return nil, err
			}
			tiers[i].Limit = decimal.NewNullDecimal(limit)
		}
	}

	return domain.NewTaxSchedule(f.Name, threshold, tiers, employeeRate, employerRate)
}

// Encode writes schedule in the File format.
func Encode(w io.Writer, schedule *domain.TaxSchedule) error {
	file := File{
		Name:              schedule.Name,
		TaxFreeThreshold:  schedule.TaxFreeThreshold.String(),
		EmployeeSuperRate: schedule.EmployeeSuperRate.String(),
		EmployerSuperRate: schedule.EmployerSuperRate.String(),
	}
	for _, b := range schedule.Brackets {
		bf := BracketFile{Rate: b.Rate.String()}
		if !b.Unbounded() {
			bf.UpTo = b.Limit.Decimal.String()
		}
		file.Brackets = append(file.Brackets, bf)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(file); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}

	_, err := w.Write(buf.Bytes())
	return err
}

func parseAmount(field, s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: %s is required", domain.ErrInvalidTaxSchedule, field)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s: %q is not a number", domain.ErrInvalidTaxSchedule, field, s)
	}
	return d, nil
}
