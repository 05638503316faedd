package mailer

import (
	"context"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ses"
)

type SESMailerClient struct {
	svc    *ses.SES
	sender string
}

func NewSESMailerClient(sess *session.Session, sender string) *SESMailerClient {
	return &SESMailerClient{svc: ses.New(sess), sender: sender}
}

func (c *SESMailerClient) Send(ctx context.Context, to, subject, htmlBody string) (string, error) {
	input := &ses.SendEmailInput{
		Source: aws.String(c.sender),
		Destination: &ses.Destination{
			ToAddresses: []*string{aws.String(to)},
		},
		Message: &ses.Message{
			Subject: &ses.Content{
				Charset: aws.String("UTF-8"),
				Data:    aws.String(subject),
			},
			Body: &ses.Body{
				Html: &ses.Content{
					Charset: aws.String("UTF-8"),
					Data:    aws.String(htmlBody),
				},
			},
		},
	}

	out, err := c.svc.SendEmailWithContext(ctx, input)
	if err != nil {
		return "", err
	}
	return aws.StringValue(out.MessageId), nil
}
