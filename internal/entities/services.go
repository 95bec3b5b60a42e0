package entities

import (
	"regexp"
	"strings"
)

// serviceCategory pairs a canonical business service name with the synonyms
// that map onto it. Category order is fixed: the first category containing a
// match wins.
type serviceCategory struct {
	name     string
	synonyms []string
}

var businessServices = []serviceCategory{
	{"IT Service Management", []string{
		"ITSM", "IT Service Management", "Service Desk", "Help Desk",
		"Incident Management", "Problem Management", "Change Management",
		"Service Catalog", "Service Request", "Knowledge Management",
	}},
	{"IT Operations Management", []string{
		"ITOM", "IT Operations", "Infrastructure Management",
		"Event Management", "Discovery", "Service Mapping",
		"Cloud Management", "Operational Intelligence",
	}},
	{"IT Business Management", []string{
		"ITBM", "IT Business Management", "Project Portfolio Management",
		"Application Portfolio Management", "Financial Management",
		"Demand Management", "Resource Management",
	}},
	{"Customer Service Management", []string{
		"CSM", "Customer Service", "Customer Support",
		"Case Management", "Customer Experience",
		"Field Service", "Customer Portal",
	}},
	{"Human Resources Service Delivery", []string{
		"HRSD", "HR Service Delivery", "Employee Service Center",
		"HR Case Management", "Employee Portal",
		"HR Knowledge Management", "HR Service Catalog",
	}},
	{"Security Operations", []string{
		"SecOps", "Security Operations", "Security Incident Response",
		"Vulnerability Response", "Threat Intelligence",
		"Security Operations Center", "SOC",
	}},
	{"Governance, Risk, and Compliance", []string{
		"GRC", "Governance", "Risk Management", "Compliance",
		"Policy Management", "Audit Management",
		"Risk Assessment", "Compliance Management",
	}},
}

// NormalizeBusinessService maps a free-text service name onto one of the
// canonical business service categories. Exact synonym matches are tried
// first, then a case-insensitive containment pass; unrecognized names pass
// through unchanged.
func NormalizeBusinessService(service string) string {
	service = strings.TrimSpace(service)
	if service == "" {
		return service
	}

	for _, cat := range businessServices {
		for _, syn := range cat.synonyms {
			if service == syn {
				return cat.name
			}
		}
	}

	lower := strings.ToLower(service)
	for _, cat := range businessServices {
		for _, syn := range cat.synonyms {
			if strings.Contains(strings.ToLower(syn), lower) {
				return cat.name
			}
		}
	}

	return service
}

// businessServiceAlternation renders every known synonym as one regexp
// alternation for the business_service extraction pattern.
func businessServiceAlternation() string {
	var quoted []string
	for _, cat := range businessServices {
		for _, syn := range cat.synonyms {
			quoted = append(quoted, regexp.QuoteMeta(syn))
		}
	}
	return strings.Join(quoted, "|")
}
