package validators

import "go.mongodb.org/mongo-driver/bson"

var RoomValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"name", "color", "created_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id": bson.M{"bsonType": "objectId"},
			"name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 100,
			},
			"color": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 50,
			},
			"created_at": bson.M{"bsonType": "date"},
			"updated_at": bson.M{"bsonType": "date"},
		},
	},
}
