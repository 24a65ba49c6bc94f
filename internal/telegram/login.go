package telegram

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Login is the telegram account that signed in with the login widget.
type Login struct {
	ID        int64
	FirstName string
	LastName  string
	Username  string
	PhotoURL  string
	AuthDate  time.Time
}

// Name is the display name of the account.
func (l Login) Name() string {
	return strings.TrimSpace(l.FirstName + " " + l.LastName)
}

// LoginVerifier checks login widget payloads against the bot token.
type LoginVerifier struct {
	Token  string
	MaxAge time.Duration // payloads older than this are rejected, 0 disables the check
}

// Verify checks the hash of the login widget payload and returns the account.
//
// The data check string consists of all received fields except the hash,
// sorted by key and formatted as key=value, one per line. The hash must be
// the hex encoded HMAC-SHA-256 of it, keyed with the SHA-256 of the bot token.
func (v LoginVerifier) Verify(payload []byte, now time.Time) (Login, error) {
	if v.Token == "" {
		return Login{}, ErrTokenNotDefined
	}

	fields, err := loginFields(payload)
	if err != nil {
		return Login{}, err
	}

	hash, ok := fields["hash"]
	if !ok || hash == "" {
		return Login{}, ErrLoginInvalid
	}
	delete(fields, "hash")

	expected := checkHash(v.Token, dataCheckString(fields))
	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(hash))) {
		return Login{}, ErrLoginInvalid
	}

	authDate, err := strconv.ParseInt(fields["auth_date"], 10, 64)
	if err != nil {
		return Login{}, fmt.Errorf("%w: auth_date is not a unix timestamp", ErrLoginInvalid)
	}

	login := Login{
		FirstName: fields["first_name"],
		LastName:  fields["last_name"],
		Username:  fields["username"],
		PhotoURL:  fields["photo_url"],
		AuthDate:  time.Unix(authDate, 0).In(time.UTC),
	}

	if v.MaxAge > 0 && now.Sub(login.AuthDate) > v.MaxAge {
		return Login{}, ErrLoginExpired
	}

	login.ID, err = strconv.ParseInt(fields["id"], 10, 64)
	if err != nil {
		return Login{}, fmt.Errorf("%w: id is not a number", ErrLoginInvalid)
	}

	return login, nil
}

// loginFields decodes the payload into the string form the hash is computed over.
func loginFields(payload []byte) (map[string]string, error) {
	d := json.NewDecoder(bytes.NewReader(payload))
	d.UseNumber()

	var raw map[string]any
	if err := d.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoginInvalid, err)
	}

	fields := make(map[string]string, len(raw))
	for k, v := range raw {
		switch value := v.(type) {
		case nil:
			continue
		case string:
			fields[k] = value
		case json.Number:
			fields[k] = value.String()
		default:
			fields[k] = fmt.Sprint(value)
		}
	}

	return fields, nil
}

func dataCheckString(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+"="+fields[k])
	}

	return strings.Join(lines, "\n")
}

func checkHash(token, data string) string {
	secret := sha256.Sum256([]byte(token))
	mac := hmac.New(sha256.New, secret[:])
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}
