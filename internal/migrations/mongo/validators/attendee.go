package validators

import "go.mongodb.org/mongo-driver/bson"

var AttendeeValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"email", "created_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id": bson.M{"bsonType": "objectId"},
			"email": bson.M{
				"bsonType":  "string",
				"minLength": 3,
				"maxLength": 254,
			},
			"created_at": bson.M{"bsonType": "date"},
		},
	},
}

var BookingAttendeeValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"booking_id", "email", "created_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id": bson.M{"bsonType": "objectId"},
			"booking_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},
			"email": bson.M{
				"bsonType":  "string",
				"minLength": 3,
				"maxLength": 254,
			},
			"created_at": bson.M{"bsonType": "date"},
		},
	},
}

var RoomLockValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"_id", "expires_at", "created_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":        bson.M{"bsonType": "string"},
			"expires_at": bson.M{"bsonType": "date"},
			"created_at": bson.M{"bsonType": "date"},
		},
	},
}
