package document

import "strings"

// VerifyResult is the outcome of the pre-order layout check.
type VerifyResult struct {
    Valid         bool     `json:"valid"`
    Issues        []string `json:"issues"`
    OrientationOK bool     `json:"orientationOk"`
}

const (
    issueOrientation = "Orientation de page incohérente détectée (pages portrait/paysage mélangées)"
    issueLayout      = "Mise en page non uniforme détectée sur certaines pages"
)

// Verify flags likely layout problems from the filename and page count.
// The rules are deliberately crude, filename-substring level: this gates the
// optional paid layout-correction service, it is not document analysis.
func Verify(fileName string, pageCount int) VerifyResult {
    lower := strings.ToLower(fileName)
    issues := []string{}

    orientationIssue := strings.Contains(lower, "scan") ||
        strings.Contains(lower, "photo") ||
        pageCount > 200

    if orientationIssue {
        issues = append(issues, issueOrientation)
    }
    if strings.Contains(lower, "rapport") && pageCount > 150 {
        issues = append(issues, issueLayout)
    }

    return VerifyResult{
        Valid:         len(issues) == 0,
        Issues:        issues,
        OrientationOK: !orientationIssue,
    }
}
