package repositories

import (
	"time"

	"chat-messages/domain/chat"

	"google.golang.org/protobuf/encoding/protowire"
)

// Records are stored with the protobuf wire format so that the layout stays
// forward compatible: unknown fields are skipped on read.
//
//	Message: 1 id, 2 chat_id, 3 sender_id, 4 content, 5 content_type,
//	         6 created_at, 7 updated_at, 8 deleted_at (unix nanos)
//	Chat:    1 id, 2 name, 3 is_group, 4 members (repeated), 5 admin_id,
//	         6 latest_message_id, 7 created_at, 8 updated_at
//	User:    1 id, 2 name, 3 picture, 4 email

func encodeMessage(m chat.Message) []byte {
	var b []byte
	b = appendString(b, 1, m.ID)
	b = appendString(b, 2, m.ChatID)
	b = appendString(b, 3, m.SenderID)
	b = appendString(b, 4, m.Content)
	b = appendString(b, 5, string(m.ContentType))
	b = appendTime(b, 6, m.CreatedAt)
	b = appendTime(b, 7, m.UpdatedAt)
	if m.DeletedAt != nil {
		b = appendTime(b, 8, *m.DeletedAt)
	}
	return b
}

func decodeMessage(b []byte) (chat.Message, error) {
	r, err := decodeRecord(b)
	if err != nil {
		return chat.Message{}, err
	}
	m := chat.Message{
		ID:          r.str(1),
		ChatID:      r.str(2),
		SenderID:    r.str(3),
		Content:     r.str(4),
		ContentType: chat.ContentType(r.str(5)),
		CreatedAt:   r.time(6),
		UpdatedAt:   r.time(7),
	}
	if r.has(8) {
		deletedAt := r.time(8)
		m.DeletedAt = &deletedAt
	}
	return m, nil
}

func encodeChat(c chat.Chat) []byte {
	var b []byte
	b = appendString(b, 1, c.ID)
	b = appendString(b, 2, c.Name)
	if c.IsGroup {
		b = protowire.AppendTag(b, 3, protowire.VarintType)
		b = protowire.AppendVarint(b, protowire.EncodeBool(true))
	}
	for _, member := range c.Members {
		b = protowire.AppendTag(b, 4, protowire.BytesType)
		b = protowire.AppendString(b, member)
	}
	b = appendString(b, 5, c.AdminID)
	b = appendString(b, 6, c.LatestMessageID)
	b = appendTime(b, 7, c.CreatedAt)
	b = appendTime(b, 8, c.UpdatedAt)
	return b
}

func decodeChat(b []byte) (chat.Chat, error) {
	r, err := decodeRecord(b)
	if err != nil {
		return chat.Chat{}, err
	}
	return chat.Chat{
		ID:              r.str(1),
		Name:            r.str(2),
		IsGroup:         protowire.DecodeBool(r.ints[3]),
		Members:         r.strs[4],
		AdminID:         r.str(5),
		LatestMessageID: r.str(6),
		CreatedAt:       r.time(7),
		UpdatedAt:       r.time(8),
	}, nil
}

func encodeUser(u chat.User) []byte {
	var b []byte
	b = appendString(b, 1, u.ID)
	b = appendString(b, 2, u.Name)
	b = appendString(b, 3, u.Picture)
	b = appendString(b, 4, u.Email)
	return b
}

func decodeUser(b []byte) (chat.User, error) {
	r, err := decodeRecord(b)
	if err != nil {
		return chat.User{}, err
	}
	return chat.User{ID: r.str(1), Name: r.str(2), Picture: r.str(3), Email: r.str(4)}, nil
}

func appendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendTime(b []byte, num protowire.Number, t time.Time) []byte {
	if t.IsZero() {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(t.UnixNano()))
}

type record struct {
	strs map[protowire.Number][]string
	ints map[protowire.Number]uint64
}

func decodeRecord(b []byte) (record, error) {
	r := record{
		strs: make(map[protowire.Number][]string),
		ints: make(map[protowire.Number]uint64),
	}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return r, protowire.ParseError(n)
		}
		b = b[n:]

		switch typ {
		case protowire.BytesType:
			v, m := protowire.ConsumeString(b)
			if m < 0 {
				return r, protowire.ParseError(m)
			}
			r.strs[num] = append(r.strs[num], v)
			n = m
		case protowire.VarintType:
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return r, protowire.ParseError(m)
			}
			r.ints[num] = v
			n = m
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return r, protowire.ParseError(n)
			}
		}
		b = b[n:]
	}
	return r, nil
}

func (r record) str(num protowire.Number) string {
	if v := r.strs[num]; len(v) > 0 {
		return v[len(v)-1]
	}
	return ""
}

func (r record) has(num protowire.Number) bool {
	_, ok := r.ints[num]
	return ok
}

func (r record) time(num protowire.Number) time.Time {
	v, ok := r.ints[num]
	if !ok {
		return time.Time{}
	}
	return time.Unix(0, int64(v)).UTC()
}
