package models

// MongoDbCollection is the name of a mongodb collection
type MongoDbCollection string

func (c MongoDbCollection) String() string {
	return string(c)
}
