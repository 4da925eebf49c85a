package database

import (
	"context"
	"fmt"
	"time"

	"gomahjong/common/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const mongoConnectTimeout = 10 * time.Second

type MongoManager struct {
	Cli *mongo.Client
	Db  *mongo.Database
}

func mongoOptions(conf config.MongoConf) *options.ClientOptions {
	opts := options.Client().ApplyURI(conf.Url).SetConnectTimeout(mongoConnectTimeout)
	if conf.MinPoolSize > 0 {
		opts.SetMinPoolSize(uint64(conf.MinPoolSize))
	}
	if conf.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(uint64(conf.MaxPoolSize))
	}
	if conf.Username != "" && conf.Password != "" {
		opts.SetAuth(options.Credential{Username: conf.Username, Password: conf.Password})
	}
	return opts
}

// NewMongo 连接对局记录库并确认主节点可用
func NewMongo(ctx context.Context, conf config.MongoConf) (*MongoManager, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, mongoOptions(conf))
	if err != nil {
		return nil, fmt.Errorf("mongodb 连接错误: %w", err)
	}
	if err = client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongodb Ping 错误: %w", err)
	}
	return &MongoManager{Cli: client, Db: client.Database(conf.Db)}, nil
}

// EnsureIndex 在集合上按字段升序建立普通索引，已存在时什么都不做
func (m *MongoManager) EnsureIndex(ctx context.Context, collection string, fields ...string) error {
	keys := bson.D{}
	for _, f := range fields {
		keys = append(keys, bson.E{Key: f, Value: 1})
	}
	_, err := m.Db.Collection(collection).Indexes().CreateOne(ctx, mongo.IndexModel{Keys: keys})
	if err != nil {
		return fmt.Errorf("创建索引 %s%v 失败: %w", collection, fields, err)
	}
	return nil
}

func (m *MongoManager) Close(ctx context.Context) error {
	if m == nil || m.Cli == nil {
		return nil
	}
	return m.Cli.Disconnect(ctx)
}
