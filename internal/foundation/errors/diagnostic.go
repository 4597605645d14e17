package errors

import (
	"fmt"
	"strings"
)

// DiagnosticContentType is the content type of every diagnostic response.
const DiagnosticContentType = "text/plain"

// DiagnosticMessage is the generic line shown to readers when a request fails.
const DiagnosticMessage = "An error occurred while processing your request"

// Diagnostic is the plain-text body returned instead of a rendered document
// when a request fails unexpectedly.
type Diagnostic struct {
	Title string
	Err   error
	Stack []byte
}

// String renders the blog title, the generic message, the error description
// and, when captured, the stack trace.
func (d Diagnostic) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", d.Title)
	b.WriteString(DiagnosticMessage)
	b.WriteString("\n")
	if d.Err != nil {
		fmt.Fprintf(&b, "%v\n", d.Err)
	}
	if len(d.Stack) > 0 {
		b.Write(d.Stack)
		if d.Stack[len(d.Stack)-1] != '\n' {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// CGI renders the diagnostic with its content-type header line, the way a
// CGI response is emitted.
func (d Diagnostic) CGI() string {
	return "Content-type: " + DiagnosticContentType + "\n\n" + d.String()
}
