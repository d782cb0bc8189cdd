package signer_test

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/teco-project/teco-core-sub000/credential"
	"github.com/teco-project/teco-core-sub000/signer"
)

var hexSHA1 = regexp.MustCompile(`^[0-9a-f]{40}$`)

func TestSignCOSPutHeaderListIsSortedAndLowercased(t *testing.T) {
	cred := credential.New("AKXXEXAMPLESECRETID", "BQXXEXAMPLESECRETKEY")
	date := time.Unix(1557989151, 0).UTC()

	auth := signer.SignCOS(signer.COSInput{
		Method: "PUT",
		Path:   "/exampleobject(腾讯云)",
		Headers: map[string]string{
			"Content-Type":      "text/plain",
			"Content-MD5":       "mQ/fVh815F3k6TAUm8m0eg==",
			"Content-Length":    "13",
			"Host":              "examplebucket-1250000000.cos.ap-beijing.myqcloud.com",
			"Date":              "Thu, 16 May 2019 06:45:51 GMT",
			"x-cos-acl":         "private",
			"x-cos-grant-read":  `uin="100000000011"`,
		},
		Date:       date,
		Duration:   7200 * time.Second,
		Credential: cred,
	})

	var headerList, paramList, signature string
	for _, it := range auth.Items {
		switch it.Name {
		case "q-header-list":
			headerList = it.Value
		case "q-url-param-list":
			paramList = it.Value
		case "q-signature":
			signature = it.Value
		}
	}

	assert.Equal(t, "content-length;content-md5;content-type;date;host;x-cos-acl;x-cos-grant-read", headerList)
	assert.Empty(t, paramList)
	assert.True(t, hexSHA1.MatchString(signature), signature)
}

func TestSignCOSKeyTimeSpansRequestedDuration(t *testing.T) {
	cred := credential.New("AKXXEXAMPLESECRETID", "BQXXEXAMPLESECRETKEY")
	date := time.Unix(1557989151, 0).UTC()

	auth := signer.SignCOS(signer.COSInput{
		Method:     "GET",
		Path:       "/object",
		Headers:    map[string]string{"host": "example.cos.ap-guangzhou.myqcloud.com"},
		Date:       date,
		Duration:   7200 * time.Second,
		Credential: cred,
	})

	var keyTime string
	for _, it := range auth.Items {
		if it.Name == "q-key-time" {
			keyTime = it.Value
		}
	}
	assert.Equal(t, "1557989151;1557996351", keyTime)
}

func TestSignCOSAppendsTokenAfterSigningOnly(t *testing.T) {
	cred := credential.NewWithToken("AKXXEXAMPLESECRETID", "BQXXEXAMPLESECRETKEY", "a-session-token")
	date := time.Unix(1557989151, 0).UTC()

	in := signer.COSInput{
		Method:     "GET",
		Path:       "/object",
		Headers:    map[string]string{"host": "example.cos.ap-guangzhou.myqcloud.com"},
		Date:       date,
		Duration:   time.Hour,
		Credential: cred,
	}

	withToken := signer.SignCOS(in)
	in.Credential.Token = ""
	withoutToken := signer.SignCOS(in)

	assert.Equal(t, withoutToken.Items, withToken.Items)
	assert.Contains(t, withToken.AsHeader(), signer.DefaultSessionTokenKey+"=a-session-token")
	assert.NotContains(t, withoutToken.AsHeader(), signer.DefaultSessionTokenKey)
}
