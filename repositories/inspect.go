package repositories

import (
	"fmt"
	"strings"
	"time"
)

// Record is a decoded, human readable view of one stored key.
type Record struct {
	Key    string
	Type   string
	At     time.Time
	ID     string
	Detail string
}

// Prefixes lists the key namespaces written by the badger repositories.
var Prefixes = []string{"msg:", "msgidx:", "chat:", "user:"}

// DescribeRecord decodes a raw key/value pair according to its namespace.
// Undecodable values are reported in Detail instead of failing the scan.
func DescribeRecord(key string, val []byte) Record {
	record := Record{Key: key, Type: "UNKNOWN"}
	switch {
	case strings.HasPrefix(key, "msgidx:"):
		record.Type = "INDEX"
		record.ID = strings.TrimPrefix(key, "msgidx:")
		record.Detail = "-> " + string(val)
	case strings.HasPrefix(key, "msg:"):
		record.Type = "MESSAGE"
		m, err := decodeMessage(val)
		if err != nil {
			record.Detail = "Error: decode failed"
			return record
		}
		record.ID, record.At = m.ID, m.CreatedAt
		record.Detail = fmt.Sprintf("[%s] %s: %s", m.ContentType, m.SenderID, m.Content)
		if m.IsDeleted() {
			record.Type = "TOMBSTONE"
		}
	case strings.HasPrefix(key, "chat:"):
		record.Type = "CHAT"
		c, err := decodeChat(val)
		if err != nil {
			record.Detail = "Error: decode failed"
			return record
		}
		record.ID, record.At = c.ID, c.UpdatedAt
		record.Detail = fmt.Sprintf("%s members=%s latest=%s", c.Name, strings.Join(c.Members, ","), c.LatestMessageID)
	case strings.HasPrefix(key, "user:"):
		record.Type = "USER"
		u, err := decodeUser(val)
		if err != nil {
			record.Detail = "Error: decode failed"
			return record
		}
		record.ID = u.ID
		record.Detail = fmt.Sprintf("%s <%s>", u.Name, u.Email)
	}
	return record
}
