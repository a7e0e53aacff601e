package mongoclient

import (
	"context"
	"crypto/tls"
	"runtime"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"github.com/x-xyz/nftauction/base/log"
)

const (
	mgSocketTimeout = 60 * time.Second
	mgConnTimeout   = 10 * time.Second
)

// Client wraps mongo.Client with the database it serves
type Client struct {
	DbName string
	*mongo.Client
}

type Config struct {
	Uri                string  `mapstructure:"uri"`
	AuthDBName         string  `mapstructure:"authDBName"`
	DbName             string  `mapstructure:"dbName"`
	SSL                bool    `mapstructure:"ssl"`
	SetSafe            bool    `mapstructure:"setSafe"`
	PoolSizeMultiplier float64 `mapstructure:"poolSizeMultiplier"`
}

// MustConnectMongoClient panics when the connection fails
func MustConnectMongoClient(cfg *Config) *Client {
	cli, err := ConnectMongoClient(cfg)
	if err != nil {
		log.Log().WithFields(log.Fields{"mongoURI": cfg.Uri, "err": err}).Panic("fail to dial Mongo")
	}
	return cli
}

// ConnectMongoClient connects and checks the database is reachable
func ConnectMongoClient(cfg *Config) (*Client, error) {
	logger := log.Log().WithFields(log.Fields{"mongoURI": cfg.Uri, "dbName": cfg.DbName})

	connSetting, err := connstring.Parse(cfg.Uri)
	if err != nil {
		logger.WithField("err", err).Error("fail to parse connstring")
		return nil, err
	}

	clientOpts := options.Client().
		ApplyURI(cfg.Uri).
		SetSocketTimeout(mgSocketTimeout).
		SetRetryWrites(true)

	if connSetting.Username != "" && connSetting.AuthSource == "" {
		clientOpts.SetAuth(options.Credential{
			AuthMechanism:           connSetting.AuthMechanism,
			AuthMechanismProperties: connSetting.AuthMechanismProperties,
			Username:                connSetting.Username,
			Password:                connSetting.Password,
			PasswordSet:             connSetting.PasswordSet,
			AuthSource:              cfg.AuthDBName,
		})
	}

	if cfg.PoolSizeMultiplier > 0 && len(connSetting.Hosts) > 0 {
		// every host keeps its own pool
		poolSize := int(float64(runtime.NumCPU()) * cfg.PoolSizeMultiplier)
		poolSize = (poolSize + len(connSetting.Hosts) - 1) / len(connSetting.Hosts)
		clientOpts.SetMinPoolSize(uint64(poolSize / 4))
		clientOpts.SetMaxPoolSize(uint64(poolSize))
	}
	if cfg.SSL {
		clientOpts.SetTLSConfig(&tls.Config{})
	}
	if cfg.SetSafe {
		clientOpts.SetWriteConcern(writeconcern.New(writeconcern.WMajority()))
	}

	c, cancel := context.WithTimeout(context.Background(), mgConnTimeout)
	defer cancel()

	client, err := mongo.Connect(c, clientOpts)
	if err != nil {
		logger.WithField("err", err).Error("fail to connect mongo db")
		return nil, err
	}
	if _, err := client.Database(cfg.DbName).ListCollectionNames(c, bson.D{}); err != nil {
		logger.WithField("err", err).Error("fail to test mongo db")
		return nil, err
	}

	logger.WithField("mongoHosts", connSetting.Hosts).Info("mongo connected")
	return &Client{
		Client: client,
		DbName: cfg.DbName,
	}, nil
}
