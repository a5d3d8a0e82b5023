package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SMSNotifier struct {
	client      SNSService
	phoneNumber string
}

func NewSMSNotifier(client SNSService, phoneNumber string) *SMSNotifier {
	return &SMSNotifier{client: client, phoneNumber: phoneNumber}
}

func (n *SMSNotifier) Name() string { return "sms" }

func (n *SMSNotifier) Send(ctx context.Context, msg Message) error {
	if n.phoneNumber == "" {
		return fmt.Errorf("sms recipient is not configured")
	}
	_, err := n.client.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(n.phoneNumber),
		Message:     aws.String(msg.Short),
	})
	return err
}

type EmailNotifier struct {
	client SESService
	from   string
	to     []string
}

func NewEmailNotifier(client SESService, from string, to []string) *EmailNotifier {
	return &EmailNotifier{client: client, from: from, to: to}
}

func (n *EmailNotifier) Name() string { return "email" }

func (n *EmailNotifier) Send(ctx context.Context, msg Message) error {
	if n.from == "" || len(n.to) == 0 {
		return fmt.Errorf("email sender or recipients are not configured")
	}
	_, err := n.client.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{ToAddresses: n.to},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(msg.Subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(msg.Body)},
			},
		},
		Source: aws.String(n.from),
	})
	return err
}
