package webhook

import (
	"fmt"
	"net/http"

	"github.com/slack-go/slack"
)

// verifySlackSignature checks the X-Slack-Signature header over body.
// All errors are generic to prevent information leakage.
func verifySlackSignature(header http.Header, body []byte, secret string) error {
	if secret == "" {
		return fmt.Errorf("webhook verification failed")
	}

	verifier, err := slack.NewSecretsVerifier(header, secret)
	if err != nil {
		return fmt.Errorf("webhook verification failed")
	}
	if _, err := verifier.Write(body); err != nil {
		return fmt.Errorf("webhook verification failed")
	}
	if err := verifier.Ensure(); err != nil {
		return fmt.Errorf("webhook verification failed")
	}
	return nil
}
