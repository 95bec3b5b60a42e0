package rules

// Keyword tables for the deterministic classifier. Matching is
// case-insensitive substring containment; membership order within a table
// carries no meaning.

var highUrgencyKeywords = []string{
	"urgent", "asap", "immediately", "emergency", "critical",
	"deadline", "today", "tomorrow", "soon", "quickly", "rush",
	"blocking", "outage", "down", "broken", "failed", "error",
	"cannot", "unable", "stopped", "crashed", "not working",
	"stopped working", "system down", "system outage", "system failure",
	"immediate assistance", "escalate", "significant impact", "affecting",
}

var mediumUrgencyKeywords = []string{
	"next week", "soon", "timely", "when you can", "this week",
	"important", "attention", "priority", "issue", "problem",
	"concern", "request", "needed", "required", "should",
}

var followUpKeywords = []string{
	"follow up", "follow-up", "followup", "no update", "haven't been any updates",
	"check status", "status update", "any progress", "still waiting", "escalate",
}

var incidentKeywords = []string{
	"error", "issue", "problem", "broken", "not working", "failed", "crash", "down", "outage",
	"complaint", "delayed", "refund", "return", "customer complaint", "customer issue",
	"customer problem", "customer service", "service issue", "service problem",
	"system outage", "system down", "system failure", "technical issue", "technical problem",
	"kiosk", "self-checkout", "checkout", "terminal", "device", "equipment", "hardware",
	"software", "application", "system", "network", "server", "database",
}

// intentCategory pairs a category name with the keyword set that signals it.
// The slice order below is the tie-break order when a text matches several
// categories: follow-up first, incident second, then the rest.
type intentCategory struct {
	name     string
	keywords []string
}

var intentCategories = []intentCategory{
	{"follow-up", followUpKeywords},
	{"incident", incidentKeywords},
	{"request", []string{
		"need", "want", "request", "would like", "please", "could you", "can you",
		"install", "setup", "configure", "access", "permission", "approval",
	}},
	{"question", []string{
		"?", "how", "what", "when", "where", "why", "who", "which",
		"can you tell me", "do you know", "could you explain",
	}},
	{"change", []string{
		"change", "modify", "update", "alter", "switch", "convert",
		"upgrade", "downgrade", "replace", "substitute",
	}},
	{"problem", []string{
		"root cause", "investigate", "analyze", "troubleshoot", "diagnose",
		"fix", "resolve", "solution", "workaround",
	}},
	{"information", []string{
		"inform", "notify", "update", "status", "progress", "report",
		"let you know", "advise", "alert", "announce",
	}},
}
