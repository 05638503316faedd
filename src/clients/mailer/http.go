package mailer

import (
	"context"
	"encoding/json"
	"io"

	requests "payplan/src/utils/requests"
)

// HTTPMailerClient talks to a generic transactional-mail HTTP API.
type HTTPMailerClient struct {
	API     *requests.ExternalAPIService
	baseURL string
	token   string
	sender  string
}

func NewHTTPMailerClient(baseURL, token, sender string) *HTTPMailerClient {
	return &HTTPMailerClient{
		API:     requests.NewExternalAPIService(),
		baseURL: baseURL,
		token:   token,
		sender:  sender,
	}
}

func (c *HTTPMailerClient) Send(ctx context.Context, to, subject, htmlBody string) (string, error) {
	body := SendEmailRequest{
		From:     c.sender,
		To:       to,
		Subject:  subject,
		HTMLBody: htmlBody,
	}

	resp, err := c.API.PostWithHeaders(ctx, c.baseURL+"/v1/send", c.token, body, nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var result SendEmailResponse
	if err = json.Unmarshal(responseBody, &result); err != nil {
		return "", err
	}
	return result.MessageID, nil
}
