package helpers

import (
	"crypto/tls"
	"net"
	"strings"

	"github.com/globalsign/mgo"
	"github.com/pkg/errors"
	"github.com/robyulchat/modplugins/models"
	"github.com/sirupsen/logrus"
)

// MDb holds the mongodb session and the database the bot works in
type MDb struct {
	session  *mgo.Session
	database string
}

// ConnectMDB connects to mongodb
func ConnectMDB(url string, database string, log *logrus.Entry) (*MDb, error) {
	log.Info("Connecting to " + redactMongoURL(url))

	mgo.SetDebug(false)

	newUrl := strings.TrimSuffix(url, "?ssl=true")
	newUrl = strings.Replace(newUrl, "ssl=true&", "", -1)

	dialInfo, err := mgo.ParseURL(newUrl)
	if err != nil {
		return nil, errors.Wrap(err, "invalid mongodb url")
	}

	// setup TLS if we use SSL
	if newUrl != url {
		tlsConfig := &tls.Config{}

		dialInfo.DialServer = func(addr *mgo.ServerAddr) (net.Conn, error) {
			return tls.Dial("tcp", addr.String(), tlsConfig)
		}
	}

	session, err := mgo.DialWithInfo(dialInfo)
	if err != nil {
		return nil, errors.Wrap(err, "connecting to mongodb failed")
	}

	session.SetMode(mgo.Primary, false)
	session.SetSafe(&mgo.Safe{})

	log.Info("Connected!")

	return &MDb{session: session, database: database}, nil
}

// C returns a collection handle
func (m *MDb) C(collection models.MongoDbCollection) *mgo.Collection {
	return m.session.DB(m.database).C(collection.String())
}

// Close closes the session
func (m *MDb) Close() {
	m.session.Close()
}

// OneID loads the record with $id into $object
func (m *MDb) OneID(collection models.MongoDbCollection, id string, object interface{}) error {
	err := m.C(collection).FindId(id).One(object)
	if err != nil {
		return errors.Wrapf(err, "loading %s from %s failed", id, collection)
	}
	return nil
}

// UpsertID creates or replaces the record with $id
func (m *MDb) UpsertID(collection models.MongoDbCollection, id string, data interface{}) error {
	_, err := m.C(collection).UpsertId(id, data)
	if err != nil {
		return errors.Wrapf(err, "saving %s to %s failed", id, collection)
	}
	return nil
}

// All loads every record of $collection into $result, which must be a pointer to a slice
func (m *MDb) All(collection models.MongoDbCollection, result interface{}) error {
	err := m.C(collection).Find(nil).All(result)
	if err != nil {
		return errors.Wrapf(err, "loading %s failed", collection)
	}
	return nil
}

// IsMdbNotFound returns true if the given error is a not found error from MongoDB
func IsMdbNotFound(err error) bool {
	return errors.Cause(err) == mgo.ErrNotFound
}

func redactMongoURL(url string) string {
	at := strings.LastIndex(url, "@")
	scheme := strings.Index(url, "://")
	if at < 0 || scheme < 0 || scheme > at {
		return url
	}
	return url[:scheme+3] + "***" + url[at:]
}
