package salary

import "strings"

// hoursPerYear converts annual salaries to an hourly rate when a dataset
// has no hourly column (40h x 52 weeks).
const hoursPerYear = 2080

// Record is one occupation's compensation statistics in one place.
type Record struct {
	Occupation    string  `json:"occupation"`
	Country       string  `json:"country"`
	State         string  `json:"state,omitempty"`
	Location      string  `json:"location,omitempty"`
	Currency      string  `json:"currency,omitempty"`
	AverageSalary float64 `json:"average_salary"`
	MinSalary     float64 `json:"min_salary,omitempty"`
	MaxSalary     float64 `json:"max_salary,omitempty"`
	HourlyRate    float64 `json:"hourly_rate,omitempty"`
}

// Label is the occupation title, the only field used for search scoring.
func (r Record) Label() string { return r.Occupation }

// Key identifies a record for de-duplication.
func (r Record) Key() string {
	return strings.Join([]string{r.Occupation, r.Country, r.State, r.Location}, "|")
}

// FillDerived sets the hourly rate from the average salary when the
// source did not provide one.
func (r *Record) FillDerived() {
	if r.HourlyRate == 0 && r.AverageSalary > 0 {
		r.HourlyRate = float64(int64(r.AverageSalary/hoursPerYear*100+0.5)) / 100
	}
}
