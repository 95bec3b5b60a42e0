package entities

import (
	"regexp"
	"strings"
)

// customerEntities lists the accepted values for the customer_* fields. The
// extraction patterns only capture values from these lists, so anything else
// written after "customer type is" or "role:" is ignored.
var customerEntities = map[string][]string{
	"customer_type": {
		"Employee", "Customer", "Partner", "Vendor", "Contractor",
		"External User", "Internal User", "Guest", "End User",
	},
	"customer_priority": {
		"Critical", "High", "Medium", "Low", "P1", "P2", "P3", "P4",
	},
	"customer_impact": {
		"High", "Medium", "Low", "None",
		"Business Critical", "Business Important", "Business Normal",
	},
	"customer_location": {
		"Office", "Remote", "Home", "Field", "Branch",
		"Headquarters", "Data Center", "Store", "Site",
	},
	"customer_department": {
		"IT", "HR", "Finance", "Sales", "Marketing",
		"Operations", "Customer Service", "Support",
		"Development", "Engineering", "Product",
	},
	"customer_role": {
		"Manager", "Director", "VP", "C-Level", "Admin",
		"User", "Developer", "Analyst", "Specialist",
		"Consultant", "Coordinator",
	},
}

func alternation(values []string) string {
	return strings.Join(values, "|")
}

// locationSuffixes terminates a valid location phrase. Shared between the
// location extraction pattern and its validator.
const locationSuffixes = `Street|Avenue|Boulevard|Road|Lane|Drive|Court|Place|Square|City|Town|Building|Office|Floor|Room|Suite|Department|Center|Campus|Site|Location|Facility|Headquarters|Branch|Store|Shop|Outlet|Warehouse|Data Center|Server Room|Lab|Laboratory|Workspace|Area|Zone|Region|District|State|Province|Country`

// entityPatterns maps entity names to their extraction patterns. Extraction
// takes the first match per entity; when a pattern has a capture group the
// group is the candidate value, otherwise the whole match is.
var entityPatterns = map[string]*regexp.Regexp{
	// Ticketing system record identifiers
	"incident_number": regexp.MustCompile(`(?i)(?:incident|ticket|case)\s+(?:number|#|no|id)?\s*(?:is|:)?\s*[#]?([A-Z0-9]+)`),
	"change_request":  regexp.MustCompile(`(?i)(?:change|CR)\s+(?:number|#|no|id)?\s*(?:is|:)?\s*[#]?([A-Z0-9]+)`),
	"problem_number":  regexp.MustCompile(`(?i)(?:problem|PR)\s+(?:number|#|no|id)?\s*(?:is|:)?\s*[#]?([A-Z0-9]+)`),
	"task_number":     regexp.MustCompile(`(?i)(?:task|TASK)\s+(?:number|#|no|id)?\s*(?:is|:)?\s*[#]?([A-Z0-9]+)`),
	"request_number":  regexp.MustCompile(`(?i)(?:request|REQ)\s+(?:number|#|no|id)?\s*(?:is|:)?\s*[#]?([A-Z0-9]+)`),

	// Customer information
	"customer_type":       regexp.MustCompile(`(?i)(?:customer|user)\s+(?:type|category)\s*(?:is|:)?\s*(` + alternation(customerEntities["customer_type"]) + `)`),
	"customer_priority":   regexp.MustCompile(`(?i)(?:priority|impact)\s+(?:level|is|:)?\s*(` + alternation(customerEntities["customer_priority"]) + `)`),
	"customer_impact":     regexp.MustCompile(`(?i)(?:business|impact)\s+(?:impact|level|is|:)?\s*(` + alternation(customerEntities["customer_impact"]) + `)`),
	"customer_location":   regexp.MustCompile(`(?i)(?:location|working from|workplace)\s*(?:is|:)?\s*(` + alternation(customerEntities["customer_location"]) + `)`),
	"customer_department": regexp.MustCompile(`(?i)(?:department|dept|team)\s*(?:is|:)?\s*(` + alternation(customerEntities["customer_department"]) + `)`),
	"customer_role":       regexp.MustCompile(`(?i)(?:role|position|title)\s*(?:is|:)?\s*(` + alternation(customerEntities["customer_role"]) + `)`),

	// User and contact information
	"user_id":       regexp.MustCompile(`(?i)(?:user|employee)\s+(?:id|number|#)?\s*(?:is|:)?\s*([A-Z0-9]+)`),
	"username":      regexp.MustCompile(`(?i)(?:username|login|account)\s+(?:is|:)?\s*([a-zA-Z0-9._-]+)`),
	"phone_number":  regexp.MustCompile(`(?:\+\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`),
	"email_address": regexp.MustCompile(`(?i)[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`),

	// Time and date information
	"date": regexp.MustCompile(`(?i)\b(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:tember)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\s+\d{1,2}(?:st|nd|rd|th)?\s*,?\s*\d{4}\b|\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b|\b(?:tomorrow|next week|next month|today|yesterday)\b`),
	"time": regexp.MustCompile(`(?i)\b(?:at|around|by)?\s*(\d{1,2}:\d{2}(?::\d{2})?\s*(?:AM|PM|am|pm)?)\b`),

	// Technical information
	"url":        regexp.MustCompile(`(?i)https?://\S+`),
	"error_code": regexp.MustCompile(`(?i)(?:error|code|error code)\s*(?:is|:)?\s*(\d{3}(?:\s*-\s*[A-Za-z]+)?)`),
	"ip_address": regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`),
	"mac_address": regexp.MustCompile(`\b(?:[0-9A-Fa-f]{2}[:-]){5}(?:[0-9A-Fa-f]{2})\b`),

	// Location and organizational information
	"location":   regexp.MustCompile(`(?i)(?:in|from|at)\s+((?:[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)\s+(?:` + locationSuffixes + `))`),
	"department": regexp.MustCompile(`(?i)(?:department|dept|team)\s+(?:is|:)?\s*([A-Z][a-zA-Z]+(?:\s+[A-Z][a-zA-Z]+)*)`),

	// Ticketing system fields
	"priority":         regexp.MustCompile(`(?i)(?:priority|impact)\s+(?:is|:)?\s*(critical|high|medium|low)`),
	"category":         regexp.MustCompile(`(?i)(?:category|type)\s*(?:is|:)?\s*([A-Z][a-zA-Z]+(?:\s+[A-Z][a-zA-Z]+)*)`),
	"subcategory":      regexp.MustCompile(`(?i)(?:subcategory|subtype)\s*(?:is|:)?\s*([A-Z][a-zA-Z]+(?:\s+[A-Z][a-zA-Z]+)*)`),
	"assignment_group": regexp.MustCompile(`(?i)(?:assignment|assigned|group)\s*(?:is|:)?\s*([A-Z][a-zA-Z]+(?:\s+[A-Z][a-zA-Z]+)*)`),
	"affected_ci":      regexp.MustCompile(`(?i)(?:affected|impacted|configuration)\s+(?:item|ci)\s*(?:is|:)?\s*([A-Z][a-zA-Z]+(?:\s+[A-Z][a-zA-Z]+)*)`),
	"business_service": regexp.MustCompile(`(?i)(?:business|service|using|via|through)\s+(?:is|:)?\s*(` + businessServiceAlternation() + `)`),
	"state":            regexp.MustCompile(`(?i)(?:state|status)\s+(?:is|:)?\s*(new|in progress|pending|resolved|closed|cancelled)`),

	// System and equipment information
	"system_name":    regexp.MustCompile(`(?i)(?:system|application|software|hardware|device|equipment|portal)\s+(?:name|is|:)?\s*([A-Z][a-zA-Z]+(?:\s+[A-Z][a-zA-Z]+)*)`),
	"equipment_type": regexp.MustCompile(`(?i)(?:kiosk|terminal|device|equipment|hardware|machine)\s+(?:type|is|:)?\s*([A-Z][a-zA-Z]+(?:\s+[A-Z][a-zA-Z]+)*)`),
	"issue_impact":   regexp.MustCompile(`(?i)(?:impact|affecting|affects|impacting|impacts)\s+(?:is|:)?\s*([^.,]+)`),
	"issue_symptoms": regexp.MustCompile(`(?i)(?:symptoms|behavior|what's happening|what is happening)\s*(?:is|:)?\s*([^.,]+)`),
	"store_manager":  regexp.MustCompile(`(?i)(?:reported by|reported|manager|supervisor|agent)\s*(?:is|:)?\s*([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`),
	"issue_location": regexp.MustCompile(`(?i)(?:access|accessing|using|in)\s+(?:the|to)?\s*([A-Z][a-zA-Z]+(?:\s+[A-Z][a-zA-Z]+)*)`),
	"access_issue":   regexp.MustCompile(`(?i)(?:unable|cannot|cant|can't|failed|failing)\s+(?:to)?\s*(?:access|login|log in|log-in|authenticate|authorize)\s+(?:to|the)?\s*([A-Z][a-zA-Z]+(?:\s+[A-Z][a-zA-Z]+)*)`),
	"reported_time":  regexp.MustCompile(`(?i)(?:reported|occurred|happened|started)\s+(?:at|time|when)?\s*(\d{1,2}:\d{2}(?::\d{2})?\s*(?:AM|PM|am|pm)?(?:\s+today|\s+yesterday)?)`),
}
