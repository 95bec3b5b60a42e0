package llm

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mikey/llm-email-analyzer/internal/core"
)

// EmailContent assembles the text block the prompts embed: subject, body,
// any additional details (sorted by key so prompts are deterministic), and
// the sender/recipient lines when known.
func EmailContent(email *core.Email) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Email Subject: %s\n\n Email Body: %s", email.Subject, email.Body)

	if len(email.ExtraFields) > 0 {
		keys := make([]string, 0, len(email.ExtraFields))
		for k := range email.ExtraFields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		b.WriteString("\n\nAdditional Details:")
		for _, k := range keys {
			fmt.Fprintf(&b, "\n%s: %v", k, email.ExtraFields[k])
		}
	}

	if email.Sender != "" {
		fmt.Fprintf(&b, "\n\nSender: %s", email.Sender)
	}
	if email.Recipient != "" {
		fmt.Fprintf(&b, "\n\nRecipient: %s", email.Recipient)
	}

	return b.String()
}

const analysisStructureOpen = `

Please provide a JSON response with the following structure:
{
    "sentiment": "Positive/Neutral/Negative",
    "urgency": "High/Medium/Low",
    "keywords": ["keyword1", "keyword2", "keyword3"],
    "intent": "Request/Information/Question/Task Assignment/Follow-up/Incident/Change/Problem/Other",
    "summary": "A one or two sentence summary of the email",
`

const analysisReplyLine = `    "generated_reply": "Your suggested reply to the email",
`

const analysisStructureClose = `    "entities": {
        // Extract ONLY the most relevant and helpful entities that are EXPLICITLY mentioned in the email.
        // Focus on information that will be useful for ticket creation and issue resolution.
        // Examples of useful entities:
        // - incident_number: Incident/ticket numbers (e.g., INC123456)
        // - error_code: Error codes or messages (e.g., "401", "403 Forbidden")
        // - system_name: Name of affected system/application
        // - issue_type: Type of issue (e.g., "Printer Access Issue")
        // - issue_location: Where the issue is occurring
        // - employee_name: Name of affected user
        // - employee_id: Employee ID or number
        // - reporter_name: Name of person reporting the issue
        // - reporter_role: Role of person reporting
        // - sender_email: Email of sender
        // - recipient_email: Email of recipient
        // - reported_time: When the issue was reported
    }
}

CRITICAL RULES:
1. ONLY include entities that are EXPLICITLY mentioned in the email
2. DO NOT make assumptions or add information that isn't in the text
3. DO NOT include any keys with null values
4. For dates, use the exact format mentioned in the email
5. DO NOT infer or guess values for any fields
6. If a field's value is not explicitly stated, DO NOT include that field
7. Preserve exact case and formatting as mentioned in the email
8. ONLY include entities that will be helpful for ticket creation and issue resolution
9. Pay special attention to:
    - Incident/ticket numbers
    - Error codes and messages
    - System names and locations
    - User information
    - Reporter information
    - Communication details

ENTITY EXTRACTION EXAMPLES:
1. For incident number:
   Input: "Ticket Number: INC908721"
   Output: {"incident_number": "INC908721"}

2. For error code:
   Input: "Authentication Failed - Code 401"
   Output: {"error_code": "401"}

3. For reporter information:
   Input: "Thanks,
Anita Roy
IT Support Specialist"
   Output: {
       "reporter_name": "Anita Roy",
       "reporter_role": "IT Support Specialist"
   }

4. For issue details:
   Input: "network printer on Floor 5"
   Output: {
       "issue_location": "Floor 5",
       "system_name": "network printer"
   }`

// AnalysisPrompt renders the full-analysis prompt: classification, summary,
// suggested reply and entity extraction in one JSON response.
func AnalysisPrompt(emailContent string) string {
	return "Analyze this email and extract key information:\n\nEmail Content:\n" +
		emailContent + analysisStructureOpen + analysisReplyLine + analysisStructureClose
}

// ExtractionPrompt renders the entity/classification prompt used when no
// reply is wanted. Identical to the analysis prompt minus the reply field.
func ExtractionPrompt(emailContent string) string {
	return "Analyze this email and extract key information:\n\nEmail Content:\n" +
		emailContent + analysisStructureOpen + analysisStructureClose
}

// ReplyPrompt renders the reply-only prompt. When detailsProvided is true the
// email content carries resolution details the reply should be based on;
// otherwise the model is told to acknowledge without inventing a resolution.
func ReplyPrompt(emailContent string, detailsProvided bool) string {
	var guidance string
	if detailsProvided {
		guidance = "The email content includes additional resolution details. Base the reply on that resolution and confirm the outcome for the sender."
	} else {
		guidance = "No resolution details are available. Acknowledge the email and let the sender know their message will be reviewed; do not invent a resolution or promise specific outcomes."
	}

	return "Analyze this email and generate an appropriate reply:\n\nEmail Content:\n" +
		emailContent + `

Please provide a JSON response with the following structure:
{
    "generated_reply": "Your suggested reply to the email"
}

` + guidance + "\n\nFocus on generating a professional and helpful response."
}
