package models

const (
	WolframAlphaTable MongoDbCollection = "wolframalpha"

	// WolframAlphaConfigID is the key of the installation wide config record
	WolframAlphaConfigID = "wolframalpha"
)

type WolframAlphaEntry struct {
	ID    string `bson:"_id"`
	AppID string `bson:"app_id"`
}
