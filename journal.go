package snapsocket

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// JournalEvent is one socket message as stored in the journal.
type JournalEvent struct {
	ID      uint      `gorm:"primarykey"`
	Time    time.Time `gorm:"index"`
	Kind    string    `gorm:"size:32;index"`
	Socket  uint64    `gorm:"index"`
	Object  uint64
	Verdict string `gorm:"size:16"`
	Reason  string `gorm:"size:16"`
	Angle   float32
}

// Journal is a Mailbox recording socket messages in a sqlite database.
type Journal struct {
	db  *gorm.DB
	now func() time.Time
}

// OpenJournal opens or creates the journal at path. ":memory:" keeps it in
// memory for the lifetime of the Journal.
func OpenJournal(path string) (*Journal, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening journal %s: %w", path, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("accessing journal %s: %w", path, err)
	}
	// every connection to :memory: is a fresh database
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&JournalEvent{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrating journal %s: %w", path, err)
	}
	return &Journal{db: db, now: time.Now}, nil
}

// Dispatch records msg. Write failures are logged and dropped.
func (j *Journal) Dispatch(msg Message) {
	ev := JournalEvent{Time: j.now(), Kind: msg.Type()}
	switch m := msg.(type) {
	case SocketCapturedMessage:
		ev.Socket, ev.Object, ev.Angle = m.Socket, m.Object, m.Angle
	case SocketRejectedMessage:
		ev.Socket, ev.Object, ev.Angle = m.Socket, m.Object, m.Angle
		ev.Verdict = m.Verdict.String()
	case SocketReleasedMessage:
		ev.Socket, ev.Object = m.Socket, m.Object
		ev.Reason = m.Reason.String()
	default:
		return
	}
	if err := j.db.Create(&ev).Error; err != nil {
		log.WithError(err).WithField("kind", ev.Kind).Warn("journal write failed")
	}
}

// Events returns the recorded events of a socket in insertion order. A zero
// socket returns every event.
func (j *Journal) Events(socket uint64) ([]JournalEvent, error) {
	q := j.db.Order("id")
	if socket != 0 {
		q = q.Where("socket = ?", socket)
	}
	var evs []JournalEvent
	if err := q.Find(&evs).Error; err != nil {
		return nil, err
	}
	return evs, nil
}

func (j *Journal) Close() error {
	sqlDB, err := j.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
