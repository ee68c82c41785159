package sms

import (
	"context"
	"encoding/json"
	"fmt"

	openapi "github.com/alibabacloud-go/darabonba-openapi/v2/client"
	openapiutil "github.com/alibabacloud-go/openapi-util/service"
	util "github.com/alibabacloud-go/tea-utils/v2/service"
	"github.com/alibabacloud-go/tea/tea"
	credential "github.com/aliyun/credentials-go/credentials"
	"go.uber.org/zap"
)

type AliyunClient struct {
	client *openapi.Client
	log    *zap.Logger
}

// NewAliyunClient builds a dysmsapi client. Credentials come from the
// ALIBABA_CLOUD_ACCESS_KEY_ID / ALIBABA_CLOUD_ACCESS_KEY_SECRET environment
// variables via the default credential chain.
func NewAliyunClient(log *zap.Logger) (*AliyunClient, error) {
	cred, err := credential.NewCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create aliyun credential: %w", err)
	}

	client, err := openapi.NewClient(&openapi.Config{
		Credential: cred,
		Endpoint:   tea.String("dysmsapi.aliyuncs.com"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create aliyun client: %w", err)
	}

	return &AliyunClient{client: client, log: log}, nil
}

func (c *AliyunClient) apiInfo(action string) *openapi.Params {
	return &openapi.Params{
		Action:      tea.String(action),
		Version:     tea.String("2017-05-25"),
		Protocol:    tea.String("HTTPS"),
		Method:      tea.String("POST"),
		AuthType:    tea.String("AK"),
		Style:       tea.String("RPC"),
		Pathname:    tea.String("/"),
		ReqBodyType: tea.String("json"),
		BodyType:    tea.String("json"),
	}
}

func (c *AliyunClient) SendSingle(ctx context.Context, phone, signName, templateCode, templateParam string) error {
	if signName == "" {
		return fmt.Errorf("signName is required")
	}
	if templateCode == "" {
		return fmt.Errorf("templateCode is required")
	}

	params := c.apiInfo("SendSms")
	request := &openapi.OpenApiRequest{
		Query: openapiutil.Query(map[string]interface{}{
			"PhoneNumbers":  tea.String(phone),
			"SignName":      tea.String(signName),
			"TemplateCode":  tea.String(templateCode),
			"TemplateParam": tea.String(templateParam),
		}),
	}

	resp, err := c.client.CallApi(params, request, &util.RuntimeOptions{})
	if err != nil {
		c.log.Error("SMS call failed",
			zap.String("template", templateCode),
			zap.Error(err))
		return fmt.Errorf("failed to send SMS: %w", err)
	}

	if resp["statusCode"] != nil {
		if statusCode := resp["statusCode"].(int); statusCode != 200 {
			return fmt.Errorf("SMS API error: statusCode=%d", statusCode)
		}
	}

	// The HTTP layer can succeed while the SMS gateway rejects the message;
	// the body carries the real verdict.
	if resp["body"] != nil {
		bodyBytes, _ := json.Marshal(resp["body"])
		var bodyMap map[string]interface{}
		if err := json.Unmarshal(bodyBytes, &bodyMap); err == nil {
			if code, ok := bodyMap["Code"].(string); ok && code != "OK" {
				message, _ := bodyMap["Message"].(string)
				return fmt.Errorf("SMS send failed: %s - %s", code, message)
			}
		}
	}

	c.log.Info("SMS sent", zap.String("template", templateCode))
	return nil
}
