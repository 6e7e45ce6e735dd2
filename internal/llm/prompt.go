package llm

import (
	"strings"

	"legalextract/internal/domain"
	"legalextract/internal/port"
)

// Fields lists the columns requested from the model, in output order.
var Fields = []string{
	"Case No",
	"County",
	"Date Filed",
	"First Name",
	"Middle Name",
	"Last Name",
	"Street No",
	"Street Name",
	"City Name",
	"State Name",
	"Zip Code",
	"Deceased",
	"Account No",
	"Property ID",
	"Tax Amount",
}

const extractionRules = `Rules:
- Only extract the first defendant's name and address.
- If the document contains both "if living" and "if any or all of the above-named Defendant(s) be deceased", set Deceased to "Deceased".
- If several Account No or Property ID values exist, extract only the first one.
- Write Tax Amount without thousands separators (e.g., $6385.56 not $6,385.56).
- Output a single header row followed by the data rows. Do not repeat the header or add commentary.`

// BuildTextPrompt returns the instruction sent with pasted case text.
func BuildTextPrompt() string {
	var b strings.Builder
	b.WriteString("You are a specialist in extracting structured legal data.\n")
	b.WriteString("The text you receive contains legal case information.\n")
	b.WriteString("Extract the following fields and respond in CSV format:\n")
	writeFields(&b)
	b.WriteString("\n")
	b.WriteString(extractionRules)
	return b.String()
}

// BuildPDFPrompt returns the instruction sent with an attached PDF.
func BuildPDFPrompt() string {
	var b strings.Builder
	b.WriteString("You are a specialist in extracting information from legal documents.\n")
	b.WriteString("Extract the following fields from the attached document and respond in CSV format:\n")
	writeFields(&b)
	b.WriteString("\n")
	b.WriteString(extractionRules)
	return b.String()
}

func writeFields(b *strings.Builder) {
	for _, f := range Fields {
		b.WriteString("- ")
		b.WriteString(f)
		b.WriteString("\n")
	}
}

// BuildRequest assembles the model call for one extraction request whose
// document bytes have already been loaded.
func BuildRequest(req domain.ExtractionRequest, payload []byte) port.ModelRequest {
	if req.IsText() {
		return port.ModelRequest{
			Instruction: BuildTextPrompt(),
			Text:        string(payload),
		}
	}
	return port.ModelRequest{
		Instruction: BuildPDFPrompt(),
		Attachment: &port.Attachment{
			MIMEType: domain.ContentTypePDF,
			Data:     payload,
		},
	}
}
