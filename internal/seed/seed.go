// Package seed holds the fixed training content: the default question bank,
// the USB case filesystem, the command drills, and the beginner mission
// answer. The data is authored once here and loaded into whichever store the
// server runs against.
package seed

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"cybercase-service/internal/domain"
)

//go:embed question_bank.json
var questionBankJSON []byte

// Questions parses the embedded default question bank.
func Questions() ([]domain.Question, error) {
	var bank []domain.Question
	if err := json.Unmarshal(questionBankJSON, &bank); err != nil {
		return nil, fmt.Errorf("parse question bank: %w", err)
	}
	return bank, nil
}

// USB case ground truth. The secret is stored encoded in the metadata of the
// designated image node; graders compare against the plaintext.
const (
	CaseSecret    = "Flag{USB_CASE_INTERMEDIATE}"
	ExifCarrier   = "city.jpg"
	MissionOwner  = "krithika"
	DemoUserEmail = "test@example.com"
	DemoUserName  = "Demo User"
)

func intPtr(v int64) *int64 { return &v }

// CaseNodes returns the USB case tree with stable ids. Node 3 (Photos.zip)
// parents the three images; node 6 is the double-extension malware; node 7
// is the hidden sensitive leak.
func CaseNodes() []domain.FileNode {
	modified := time.Date(2025, 8, 22, 10, 0, 0, 0, time.UTC)
	return []domain.FileNode{
		{ID: 1, Name: "MeetingNotes.docx", Type: "docx", Size: 24, Author: "HR Department", Modified: modified,
			Notes:   "Weekly sync notes.",
			Content: "Agenda:\n- Hiring pipeline\n- Security awareness session\n- Lunch & Learn"},
		{ID: 2, Name: "ProjectBudget.xlsx", Type: "xlsx", Size: 88, Author: "Admin", Modified: modified,
			Notes: "FY25 budget outline"},
		{ID: 3, Name: "Photos.zip", Type: "zip", Size: 512, Author: "Unknown", Modified: modified,
			Notes: "Compressed holiday photos"},
		{ID: 4, Name: "readme.txt", Type: "txt", Size: 2, Author: "Unknown", Modified: modified,
			Notes:   "Plain text readme",
			Content: "If found, please return to the front desk."},
		{ID: 5, Name: "report.pdf", Type: "pdf", Size: 140, Author: "Unknown", Modified: modified,
			Notes: "Quarterly CSR report"},
		{ID: 6, Name: "Invoice.pdf.exe", Type: "exe", Size: 620, Author: "Unknown", Modified: modified,
			Notes: "Looks like a PDF, but it's an executable.", IsMalware: true},
		{ID: 7, Name: "confidential.txt", Type: "txt", Size: 4, Author: "Unknown", Modified: modified,
			Notes:    "Hidden file",
			Content:  "Top Secret Client List:\n- Acme Corp\n- Globex Inc\n- Initech\n[Leak Detected]",
			IsHidden: true, ContainsSensitive: true},
		{ID: 8, Name: "beach.jpg", Type: "img", Size: 220, Author: "Camera", Modified: modified,
			Path: "images/beach.jpg", ParentID: intPtr(3)},
		{ID: 9, Name: "mountain.jpg", Type: "img", Size: 240, Author: "Camera", Modified: modified,
			Path: "images/mountain.jpg", ParentID: intPtr(3)},
		{ID: 10, Name: "city.jpg", Type: "img", Size: 200, Author: "Camera", Modified: modified,
			Notes: "Check EXIF", Path: "images/city.jpg", ParentID: intPtr(3)},
	}
}

// CaseMetadata returns the sparse hidden-metadata table keyed by node id.
// Only the EXIF carrier image has an entry.
func CaseMetadata() map[int64]domain.HiddenMetadata {
	return map[int64]domain.HiddenMetadata{
		10: {
			"Make":          "CYBERCAM 1.0",
			"Model":         "Sim-EXIF",
			"HiddenMessage": "true",
			"UserComment":   domain.EncodeSecret(CaseSecret),
			"Software":      "PhotoDesk 3.2",
		},
	}
}

// DrillLevels returns the command-line drill set.
func DrillLevels() []domain.DrillLevel {
	return []domain.DrillLevel{
		{ID: 1, Title: "Hello World", Description: "Print the text hello world exactly as shown.",
			Hint: "Use echo with quoted text", Solution: `echo "hello world"`},
		{ID: 2, Title: "Count Files", Description: "Show the number of files (not directories) in the current directory.",
			Hint: "Use ls and wc -l", Solution: "ls -p | grep -v / | wc -l"},
		{ID: 3, Title: "Show First Line", Description: "Print the first line of the file sample.txt (assume it exists).",
			Hint: "Use head or sed", Solution: "head -n 1 sample.txt"},
		{ID: 4, Title: "Find TODOs", Description: "Recursively find lines containing TODO in the current directory.",
			Hint: "Use grep with -R -n", Solution: "grep -R -n TODO ."},
	}
}
