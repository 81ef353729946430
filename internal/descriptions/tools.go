package descriptions

// Tool descriptions shown to MCP clients, with examples and workflows

const (
	PCPExtractDescription = `Find the PCP change request in pasted call-center text and return its details as JSON.

**When to use:** Before generating a form, to check what will be written into it, or when only the extracted details are needed.

**Why it's useful:** Separates patient rows from change notes, pairs them in order and resolves the new physician, effective date, reference number and agent without producing a PDF.

**Input:** One or more tab-separated patient rows (request date, internal ID, date of birth, name, current PCP, member ID, phone) and the timestamped notes that mention the change.

**Examples:**
• Preview a change: "Extract the PCP change from this pasted note and row"
• Check a note: "Which physician and effective date does this note name?"

**Common workflows:**
1. Review: pcp_extract → confirm physician and date → pcp_generate_form
2. Troubleshooting: pcp_extract → read the problems list → fix the pasted note

**Best practices:** Entries listing problems will be rejected by pcp_generate_form. Paste one patient at a time.`

	PCPGenerateFormDescription = `Fill the PCP change request PDF from pasted call-center text.

**When to use:** When a member's primary care physician change has been processed and the paper form needs to be produced.

**Why it's useful:** Writes the member, current and new physician, effective date, reference number and agent into the configured template and returns the finished PDF.

**Input:** Exactly one tab-separated patient row and its PCP change note. Set save to true to also store the PDF in the server's output directory.

**Examples:**
• Generate a form: "Create the PCP change form for this member"
• Generate and keep a copy: "Fill the form and save it on the server"

**Common workflows:**
1. Single change: paste row and note → pcp_generate_form → hand the PDF on
2. Batch of members: run pcp_generate_form once per member

**Best practices:** Multiple patients in one request are rejected. The physician and the effective date must both be present in the note.`

	PCPTemplateInfoDescription = `Inspect the PDF template used for PCP change forms.

**When to use:** After installing or replacing the template, or when form generation fails with a template error.

**Why it's useful:** Reports whether the template opens, how many pages it has and which required form fields are missing.

**Examples:**
• Setup check: "Is the PCP change form template usable?"
• Troubleshooting: "Which fields does the template lack?"

**Best practices:** Run once after deploying a new template. Every field listed as missing will stay blank in generated forms.`

	PCPServerInfoDescription = `Get server information, configuration and the list of available tools.

**When to use:** To confirm which template and output directory the server uses, or to discover the available tools.

**Examples:**
• "Which template is the PCP form server using?"
• "Where are saved forms written?"

**Best practices:** Use this first when connecting a new client.`
)

// ToolDescriptions maps tool names to their descriptions
var ToolDescriptions = map[string]string{
	"pcp_extract":       PCPExtractDescription,
	"pcp_generate_form": PCPGenerateFormDescription,
	"pcp_template_info": PCPTemplateInfoDescription,
	"pcp_server_info":   PCPServerInfoDescription,
}

// GetToolDescription returns the description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}
