package awsmgr_test

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/mateusvicente100/amazon-storage-service/pkg/awsmgr"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "services.yaml")
	if err := ioutil.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestNewManagerFromConfigFile(t *testing.T) {
	t.Setenv("AWS_DEFAULT_REGION", "")

	cfgPath := writeConfig(t, `
region: eu-west-1
credentials:
  accessKey: AKID
  secretKey: SECRET
service:
  storage:
    host: localhost:9000
`)

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	mgr, err := awsmgr.NewManager(map[string]interface{}{
		"config-file": cfgPath,
		"logger":      logger,
	})
	assert.Nil(t, err)
	if assert.NotNil(t, mgr) {
		assert.NotNil(t, mgr.Storage)
		assert.NotNil(t, mgr.Queue)
		assert.NotNil(t, mgr.Table)
		assert.Equal(t, "eu-west-1", mgr.Cfg.GetString("region"))
		assert.Equal(t, "localhost:9000", mgr.Cfg.GetString("service.storage.host"))
	}
}

func TestNewManagerMissingCredentials(t *testing.T) {
	// ambient credentials would defeat the point of this test
	t.Setenv("AWS_ACCESS_KEY_ID", "")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "")

	cfgPath := writeConfig(t, "region: us-east-1\n")

	_, err := awsmgr.NewManager(map[string]interface{}{"config-file": cfgPath})
	if assert.NotNil(t, err) {
		assert.Contains(t, err.Error(), "credentials")
	}
}

func TestNewManagerBadOptions(t *testing.T) {
	_, err := awsmgr.NewManager(map[string]interface{}{"logger": 42})
	assert.NotNil(t, err)

	_, err = awsmgr.NewManager(map[string]interface{}{"config-file": 42})
	assert.NotNil(t, err)
}

func TestNewManagerBadConfigPath(t *testing.T) {
	_, err := awsmgr.NewManager(map[string]interface{}{
		"config-file": filepath.Join(t.TempDir(), "missing.yaml"),
	})
	assert.NotNil(t, err)
}
