// Package license extracts driver details from the OCR text of an Indian
// driving licence.
package license

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/roadwise/roadwise/model"
)

const datePattern = `(\d{1,2}[-/]\d{1,2}[-/]\d{2,4})`

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	digitRe      = regexp.MustCompile(`\d`)

	// nameRules run in order; the first acceptable candidate wins.
	nameRules = []spanRule{
		{prefix: regexp.MustCompile(`NAME[:\s]+`), body: isUpperOrSpace, min: 3, max: 41, greedy: true, firstUpper: true,
			stop: regexp.MustCompile(`^(?:\s+S/D/W|S/O|D/O|W/O|ADD|DOB|D\.O\.B|PIN)`)},
		{prefix: regexp.MustCompile(`NAME[:\s]+`), body: isUpperOrSpace, min: 3, max: 41, greedy: true, firstUpper: true,
			stop: regexp.MustCompile(`^\s+[A-Z]/[A-Z]/[A-Z]`)},
		{prefix: regexp.MustCompile(`(?:NAME|नाम)[:\s]+`), body: isUpperOrSpace, min: 3, max: 41, greedy: true, firstUpper: true},
		{prefix: regexp.MustCompile(`S/D/W\s+OF[:\s]+`), body: isUpperOrSpace, min: 1,
			stop: regexp.MustCompile(`^(?:ADD|DOB|PIN)`)},
		{prefix: regexp.MustCompile(`S/O[:\s]+`), body: isUpperOrSpace, min: 1,
			stop: regexp.MustCompile(`^(?:ADD|DOB|D\.O\.B|PIN)`)},
		{prefix: regexp.MustCompile(`D/O[:\s]+`), body: isUpperOrSpace, min: 1,
			stop: regexp.MustCompile(`^(?:ADD|DOB|D\.O\.B|PIN)`)},
		{prefix: regexp.MustCompile(`W/O[:\s]+`), body: isUpperOrSpace, min: 1,
			stop: regexp.MustCompile(`^(?:ADD|DOB|D\.O\.B|PIN)`)},
	}
	nameFallbackRe = regexp.MustCompile(`NAME\s+([A-Z\s]+?)\s+S/D/W`)

	dobRes = []*regexp.Regexp{
		regexp.MustCompile(`DOB[:\s]*` + datePattern),
		regexp.MustCompile(`D\.O\.B[:\s]*` + datePattern),
		regexp.MustCompile(`DATE OF BIRTH[:\s]*` + datePattern),
		regexp.MustCompile(`BIRTH[:\s]*` + datePattern),
	}

	licenseNumberRes = []*regexp.Regexp{
		regexp.MustCompile(`(?:DL|LICENSE|LIC)[\s#NO:]*([A-Z]{2}[-\s]?\d{2}[-\s]?\d{4,}[-\s]?\d{7})`),
		regexp.MustCompile(`(?:DL|LICENSE|LIC)[\s#NO:]*([A-Z0-9\-]{10,})`),
	}

	issueRes = []*regexp.Regexp{
		regexp.MustCompile(`DOI[:\s]*` + datePattern),
		regexp.MustCompile(`(?:ISSUE|ISSUED|ISS)[\sDATE:]*` + datePattern),
		regexp.MustCompile(`(?:FROM|VALID FROM)[:\s]*` + datePattern),
		regexp.MustCompile(`(?:DATE OF ISSUE)[:\s]*` + datePattern),
	}
	issueFallbackRe = regexp.MustCompile(`COV.*?(\d{2}-\d{2}-\d{4})`)

	expiryRes = []*regexp.Regexp{
		regexp.MustCompile(`VALID TILL[:\s]*` + datePattern),
		regexp.MustCompile(`(?:VALID|VALIDITY|EXPIRY|EXPIRES|TILL|UPTO)[:\s]*` + datePattern),
		regexp.MustCompile(`(?:VALID UPTO)[:\s]*` + datePattern),
		regexp.MustCompile(`(?:EXP|EXPIRY DATE)[:\s]*` + datePattern),
	}

	classStop  = regexp.MustCompile(`^(?:ADDRESS|BLOOD|BG|\d{2}[-/]\d{2})`)
	classRules = []spanRule{
		{prefix: regexp.MustCompile(`COV[:\s]*`), body: isClassChar, min: 1, stop: classStop},
		{prefix: regexp.MustCompile(`CLASS[:\s]*`), body: isClassChar, min: 1, stop: classStop},
	}
	classTokenRe = regexp.MustCompile(`MCWG|LMV|HMV|TRANS`)
	classCodeRe  = regexp.MustCompile(`[A-Z][A-Z-]*`)

	dateRe = regexp.MustCompile(`(\d{1,2})[-/](\d{1,2})[-/](\d{4}|\d{2})`)
)

// Parse extracts what it can from raw OCR text. Fields that cannot be found
// stay empty; VehicleTypes always has at least one entry.
func Parse(text string, now time.Time) model.LicenseData {
	text = strings.ToUpper(whitespaceRe.ReplaceAllString(text, " "))

	var data model.LicenseData
	data.Name = findName(text)

	if dob := firstSubmatch(text, dobRes); dob != "" {
		data.DateOfBirth = dob
		if born, ok := ParseDate(dob, now.Location()); ok {
			age := completedYears(born, now)
			data.Age = &age
		}
	}

	data.LicenseNumber = strings.TrimSpace(firstSubmatch(text, licenseNumberRes))

	issue := firstSubmatch(text, issueRes)
	if issue == "" {
		if m := issueFallbackRe.FindStringSubmatch(text); m != nil {
			issue = m[1]
		}
	}
	if issue != "" {
		data.IssueDate = issue
		if issued, ok := ParseDate(issue, now.Location()); ok {
			years := max(0, completedYears(issued, now))
			data.Experience = &years
		}
	}

	if expiry := firstSubmatch(text, expiryRes); expiry != "" {
		data.ExpiryDate = expiry
		if expires, ok := ParseDate(expiry, now.Location()); ok {
			data.IsValid = expires.After(now)
		}
	}

	data.VehicleClass, data.VehicleTypes = findVehicleClasses(text)
	return data
}

// ParseDate reads D-M-YYYY, D/M/YYYY or the two-digit-year forms (YY > 50 is
// 19YY). Impossible calendar dates are rejected.
func ParseDate(s string, loc *time.Location) (time.Time, bool) {
	m := dateRe.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if len(m[3]) == 2 {
		if year > 50 {
			year += 1900
		} else {
			year += 2000
		}
	}
	if loc == nil {
		loc = time.UTC
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
	if t.Day() != day || int(t.Month()) != month || t.Year() != year {
		return time.Time{}, false
	}
	return t, true
}

// VehicleTypeForClass maps a licence class-of-vehicle code to a vehicle type.
func VehicleTypeForClass(class string) string {
	switch strings.ToUpper(strings.TrimSpace(class)) {
	case "MC", "MCWG":
		return model.VehicleBike
	case "LMV", "LMV-NT":
		return model.VehicleCar
	case "HMV", "HGV":
		return model.VehicleTruck
	case "TRANSPORT", "PSV":
		return model.VehicleBus
	default:
		return model.VehicleCar
	}
}

func findName(text string) string {
	for _, rule := range nameRules {
		name := strings.TrimSpace(rule.find(text))
		if len(name) > 3 && !digitRe.MatchString(name) &&
			!strings.Contains(name, "GETTYIMAGES") && !strings.Contains(name, "CREDIT") {
			return name
		}
	}
	if m := nameFallbackRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// findVehicleClasses returns the class code of the class section and the
// vehicle types it grants.
func findVehicleClasses(text string) (string, []string) {
	section := ""
	for _, rule := range classRules {
		if s := rule.find(text); s != "" {
			section = s
			break
		}
	}
	if section == "" {
		// Without a class section, the second bare class token wins.
		if tokens := classTokenRe.FindAllString(text, 2); len(tokens) > 0 {
			section = tokens[len(tokens)-1]
		}
	}

	var types []string
	if section != "" {
		types = vehicleTypesIn(section)
	}
	if len(types) == 0 {
		if strings.Contains(text, "MCWG") {
			types = append(types, model.VehicleBike)
		}
		if strings.Contains(text, "LMV") || strings.Contains(text, "CAR") {
			types = append(types, model.VehicleCar)
		}
		if strings.Contains(text, "HMV") || strings.Contains(text, "TRUCK") {
			types = append(types, model.VehicleTruck)
		}
		if strings.Contains(text, "TRANS") || strings.Contains(text, "BUS") {
			types = append(types, model.VehicleBus)
		}
	}
	if len(types) == 0 {
		types = []string{model.VehicleCar}
	}
	return classCodeRe.FindString(section), types
}

func vehicleTypesIn(section string) []string {
	var types []string
	if strings.Contains(section, "MC") {
		types = append(types, model.VehicleBike)
	}
	if strings.Contains(section, "LMV") || strings.Contains(section, "CAR") {
		types = append(types, model.VehicleCar)
	}
	if strings.Contains(section, "HMV") || strings.Contains(section, "TRUCK") {
		types = append(types, model.VehicleTruck)
	}
	if strings.Contains(section, "TRANS") || strings.Contains(section, "BUS") {
		types = append(types, model.VehicleBus)
	}
	if strings.Contains(section, "AUTO") {
		types = append(types, model.VehicleAutoRickshaw)
	}
	return types
}

func firstSubmatch(text string, res []*regexp.Regexp) string {
	for _, re := range res {
		if m := re.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	return ""
}

func completedYears(from, now time.Time) int {
	years := now.Year() - from.Year()
	if now.Month() < from.Month() || (now.Month() == from.Month() && now.Day() < from.Day()) {
		years--
	}
	return years
}
