package aws_handler

import (
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/secretsmanager"
)

// SecretManager fetches the job credential when job.secretArn is configured,
// so the shared secret never lands in the settings file.
type SecretManager struct {
	svc *secretsmanager.SecretsManager
}

func NewSecretManager(sess *session.Session) *SecretManager {
	return &SecretManager{svc: secretsmanager.New(sess)}
}

func (s *SecretManager) GetSecretValue(secretId string) (string, error) {
	input := &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretId),
	}

	result, err := s.svc.GetSecretValue(input)
	if err != nil {
		return "", err
	}

	return *result.SecretString, nil
}
