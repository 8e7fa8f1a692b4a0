// Package awsmgr loads configuration and credentials and hands out
// configured service clients. A manager owns exactly one credential set;
// build several managers to talk to several accounts from one process.
package awsmgr

import (
	"path/filepath"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/mateusvicente100/amazon-storage-service/pkg/awsauth"
	"github.com/mateusvicente100/amazon-storage-service/pkg/queue"
	"github.com/mateusvicente100/amazon-storage-service/pkg/storage"
	"github.com/mateusvicente100/amazon-storage-service/pkg/table"
)

type Manager struct {
	Storage *storage.Client
	Queue   *queue.Client
	Table   *table.Client
	Logger  logrus.FieldLogger
	Cfg     *viper.Viper
}

// NewManager builds a fully configured manager. Recognized userCfg options:
// "config-file" (string) to pin an explicit config file, and "logger"
// (logrus.FieldLogger) to supply a logger.
func NewManager(userCfg map[string]interface{}) (*Manager, error) {
	var err error
	mgr := &Manager{}

	if loggerRaw, ok := userCfg["logger"]; ok {
		if logger, ok := loggerRaw.(logrus.FieldLogger); ok {
			mgr.Logger = logger
		} else {
			return nil, errors.New("option 'logger' must satisfy logrus.FieldLogger")
		}
	} else {
		mgr.Logger = logrus.New()
	}

	if cfgPathRaw, ok := userCfg["config-file"]; ok {
		if cfgPath, ok := cfgPathRaw.(string); ok {
			err = mgr.initConfig(&cfgPath)
		} else {
			return nil, errors.New("option 'config-file' must be of type string")
		}
	} else {
		err = mgr.initConfig(nil)
	}
	if err != nil {
		return nil, err
	}

	if err := mgr.initServices(); err != nil {
		return nil, err
	}
	return mgr, nil
}

func (self *Manager) initConfig(cfgPath *string) error {
	// Private viper context so as not to conflict with the importer's own
	// configuration.
	self.Cfg = viper.New()

	self.Cfg.SetDefault("protocol", "https")
	self.Cfg.SetDefault("region", "us-east-1")

	// Order of precedence: ENV, config file, defaults. The secret key only
	// ever lives in the config value; it is never logged.
	self.Cfg.BindEnv("region", "AWS_DEFAULT_REGION")
	self.Cfg.BindEnv("credentials.accessKey", "AWS_ACCESS_KEY_ID")
	self.Cfg.BindEnv("credentials.secretKey", "AWS_SECRET_ACCESS_KEY")

	if cfgPath != nil {
		self.Cfg.SetConfigFile(*cfgPath)
		if err := self.Cfg.ReadInConfig(); err != nil {
			return errors.Wrap(err, "Failed to load config")
		}
		return nil
	}

	// default search path: ./configs/services.* then ~/.amazon-storage-service
	self.Cfg.AddConfigPath("./configs")
	if home, err := homedir.Dir(); err == nil {
		self.Cfg.AddConfigPath(filepath.Join(home, ".amazon-storage-service"))
	}
	self.Cfg.SetConfigName("services")

	if err := self.Cfg.ReadInConfig(); err != nil {
		// running purely off environment variables is fine
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return errors.Wrap(err, "Failed to load config")
		}
	}
	return nil
}

func (self *Manager) initServices() error {
	creds := awsauth.Credentials{
		AccessKey: self.Cfg.GetString("credentials.accessKey"),
		SecretKey: self.Cfg.GetString("credentials.secretKey"),
	}
	if !creds.Valid() {
		return errors.New("No credentials configured (set credentials.accessKey/secretKey or AWS_ACCESS_KEY_ID/AWS_SECRET_ACCESS_KEY)")
	}

	var err error
	self.Storage, err = storage.NewClient(
		self.Logger.WithField("module", "storage"), creds, self.endpointFor("s3", "storage"))
	if err != nil {
		return err
	}
	self.Queue, err = queue.NewClient(
		self.Logger.WithField("module", "queue"), creds, self.endpointFor("sqs", "queue"))
	if err != nil {
		return err
	}
	self.Table, err = table.NewClient(
		self.Logger.WithField("module", "table"), creds, self.endpointFor("sdb", "table"))
	return err
}

// endpointFor derives the conventional endpoint for a service and applies
// any per-service host override from the config (handy for pointing one
// family at a local stand-in).
func (self *Manager) endpointFor(service, cfgKey string) awsauth.Endpoint {
	ep := awsauth.NewEndpoint(
		self.Cfg.GetString("protocol"),
		self.Cfg.GetString("region"),
		service)
	if host := self.Cfg.GetString("service." + cfgKey + ".host"); host != "" {
		ep.Host = host
	}
	return ep
}
