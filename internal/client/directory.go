package client

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/yigit/placement/internal/app/models"
	"github.com/yigit/placement/internal/app/models/dto"
)

// Bracket is a compensation range in LPA
type Bracket string

const (
	BracketAny     Bracket = "any"
	BracketUnder5  Bracket = "lt5"
	Bracket5To10   Bracket = "5to10"
	Bracket10To20  Bracket = "10to20"
	Bracket20Plus  Bracket = "20plus"
	bracketUnknown Bracket = ""
)

// Brackets lists the selectable brackets in ascending order
var Brackets = []Bracket{BracketAny, BracketUnder5, Bracket5To10, Bracket10To20, Bracket20Plus}

// ParseBracket accepts a bracket name; empty means any
func ParseBracket(raw string) (Bracket, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return BracketAny, nil
	}
	for _, b := range Brackets {
		if string(b) == raw {
			return b, nil
		}
	}
	return bracketUnknown, fmt.Errorf("unknown compensation bracket %q (want one of any, lt5, 5to10, 10to20, 20plus)", raw)
}

// BracketOf places an LPA figure in its bracket
func BracketOf(lpa float64) Bracket {
	switch {
	case lpa < 5:
		return BracketUnder5
	case lpa < 10:
		return Bracket5To10
	case lpa < 20:
		return Bracket10To20
	default:
		return Bracket20Plus
	}
}

var leadingNumber = regexp.MustCompile(`\d+(?:\.\d+)?`)

// Compensation returns a drive's package in LPA. The numeric package_lpa wins;
// otherwise the first number of the free-text package is used ("25-30 LPA" is 25).
// Digits are not concatenated across the whole text, so a range never reads as
// 2530 and "7.5 LPA" keeps its decimal. Text without a number has no compensation.
func Compensation(d dto.DriveResponse) (float64, bool) {
	if d.PackageLPA != nil {
		return *d.PackageLPA, true
	}
	m := leadingNumber.FindString(d.Package)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// DriveFilter narrows a drive list. Zero values match everything.
type DriveFilter struct {
	// Query is matched against company name and job role
	Query    string
	Location string
	Bracket  Bracket
}

// FilterDrives returns the drives matching f, keeping their order.
// Eligibility is never considered here.
func FilterDrives(drives []dto.DriveResponse, f DriveFilter) []dto.DriveResponse {
	query := strings.ToLower(strings.TrimSpace(f.Query))
	location := strings.TrimSpace(f.Location)

	out := make([]dto.DriveResponse, 0, len(drives))
	for _, d := range drives {
		if query != "" &&
			!strings.Contains(strings.ToLower(d.CompanyName), query) &&
			!strings.Contains(strings.ToLower(d.JobRole), query) {
			continue
		}
		if location != "" && !strings.EqualFold(strings.TrimSpace(d.Location), location) {
			continue
		}
		if f.Bracket != "" && f.Bracket != BracketAny {
			lpa, ok := Compensation(d)
			if !ok || BracketOf(lpa) != f.Bracket {
				continue
			}
		}
		out = append(out, d)
	}
	return out
}

// SortKey orders a drive list
type SortKey string

const (
	SortDeadline     SortKey = "deadline"
	SortCompensation SortKey = "compensation"
	SortCompany      SortKey = "company"
)

// ParseSortKey accepts a sort key name; empty means deadline
func ParseSortKey(raw string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(raw))); k {
	case "":
		return SortDeadline, nil
	case SortDeadline, SortCompensation, SortCompany:
		return k, nil
	default:
		return "", fmt.Errorf("unknown sort key %q (want deadline, compensation or company)", raw)
	}
}

// SortDrives returns a sorted copy: deadline soonest first, compensation
// highest first (unknown last), company alphabetically.
func SortDrives(drives []dto.DriveResponse, key SortKey) []dto.DriveResponse {
	out := make([]dto.DriveResponse, len(drives))
	copy(out, drives)

	company := func(i, j int) bool {
		return strings.ToLower(out[i].CompanyName) < strings.ToLower(out[j].CompanyName)
	}

	switch key {
	case SortCompensation:
		sort.SliceStable(out, func(i, j int) bool {
			a, aok := Compensation(out[i])
			b, bok := Compensation(out[j])
			if aok != bok {
				return aok
			}
			return a > b
		})
	case SortCompany:
		sort.SliceStable(out, company)
	default:
		// ISO dates order lexically
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].Deadline != out[j].Deadline {
				return out[i].Deadline < out[j].Deadline
			}
			return company(i, j)
		})
	}
	return out
}

// Locations returns the distinct drive locations, sorted
func Locations(drives []dto.DriveResponse) []string {
	seen := make(map[string]string)
	for _, d := range drives {
		loc := strings.TrimSpace(d.Location)
		if loc == "" {
			continue
		}
		if _, ok := seen[strings.ToLower(loc)]; !ok {
			seen[strings.ToLower(loc)] = loc
		}
	}
	out := make([]string, 0, len(seen))
	for _, loc := range seen {
		out = append(out, loc)
	}
	sort.Strings(out)
	return out
}

// HasApplied reports whether apps holds an application to driveID.
// Duplicates are tolerated: any match counts.
func HasApplied(apps []models.Application, driveID int64) bool {
	return ApplicationFor(apps, driveID) != nil
}

// ApplicationFor returns the first application to driveID, or nil
func ApplicationFor(apps []models.Application, driveID int64) *models.Application {
	for i := range apps {
		if apps[i].DriveID == driveID {
			return &apps[i]
		}
	}
	return nil
}
