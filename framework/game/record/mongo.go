package record

import (
	"context"
	"errors"

	"gomahjong/common/database"
	"gomahjong/common/log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const roundCollection = "round_records"

// MongoRepository 每局一个文档，动作追加在 events 数组中
type MongoRepository struct {
	mongo *database.MongoManager
}

func NewMongoRepository(mongo *database.MongoManager) *MongoRepository {
	return &MongoRepository{mongo: mongo}
}

func (r *MongoRepository) collection() *mongo.Collection {
	return r.mongo.Db.Collection(roundCollection)
}

func (r *MongoRepository) AppendEvent(ctx context.Context, roundID string, event ActionEvent) error {
	_, err := r.collection().UpdateOne(ctx,
		bson.M{"_id": roundID},
		bson.M{"$push": bson.M{"events": event}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		log.Error("保存动作失败: round=%s, err=%v", roundID, err)
		return err
	}
	return nil
}

func (r *MongoRepository) SaveRound(ctx context.Context, round *RoundRecord) error {
	set := bson.M{
		"table_id":   round.TableID,
		"dealer":     round.Dealer,
		"players":    round.Players,
		"start_time": round.StartTime,
		"end_time":   round.EndTime,
	}
	if round.Result != nil {
		set["result"] = round.Result
	}
	_, err := r.collection().UpdateOne(ctx,
		bson.M{"_id": round.RoundID},
		bson.M{"$set": set},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		log.Error("保存局记录失败: round=%s, err=%v", round.RoundID, err)
		return err
	}
	return nil
}

func (r *MongoRepository) FindRound(ctx context.Context, roundID string) (*RoundRecord, error) {
	var round RoundRecord
	err := r.collection().FindOne(ctx, bson.M{"_id": roundID}).Decode(&round)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrRoundNotFound
		}
		log.Error("查询局记录失败: %v", err)
		return nil, err
	}
	return &round, nil
}

func (r *MongoRepository) Close(ctx context.Context) error {
	return r.mongo.Close(ctx)
}
