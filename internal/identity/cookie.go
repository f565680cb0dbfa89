package identity

import (
	"crypto/hmac"
	"encoding/hex"
	"net/http"
	"strings"

	"golang.org/x/crypto/blake2b"

	id "vowcraft/pkg/domain"
)

// CookieName is the origin-scoped slot holding the anonymous identity.
const CookieName = "vc_anon"

// Codec signs and verifies cookie values so a client cannot claim another
// visitor's identity by editing the cookie. Value format: "<uuid>.<mac>".
type Codec struct {
	key []byte
}

func NewCodec(key string) *Codec {
	return &Codec{key: []byte(key)}
}

// Encode returns the signed cookie value for an identity.
func (c *Codec) Encode(anonID id.AnonID) string {
	return anonID.String() + "." + c.mac(anonID.String())
}

// Decode verifies the signature and parses the identity.
// Any malformed or forged value yields the zero AnonID.
func (c *Codec) Decode(value string) id.AnonID {
	raw, sig, found := strings.Cut(value, ".")
	if !found || !hmac.Equal([]byte(sig), []byte(c.mac(raw))) {
		return id.AnonID{}
	}
	anonID, err := id.ParseAnonID(raw)
	if err != nil {
		return id.AnonID{}
	}
	return anonID
}

func (c *Codec) mac(value string) string {
	h, err := blake2b.New256(c.key)
	if err != nil {
		// Only possible with a key over 64 bytes; config keys are short.
		panic(err)
	}
	h.Write([]byte(value))
	return hex.EncodeToString(h.Sum(nil)[:16])
}

// CookieStore is a per-request Store backed by the vc_anon cookie. Reads come
// from the inbound request; writes go to the response. The decoded value is
// cached so Peek after GetOrCreate within one request sees the new identity
// before the client ever echoes the cookie back.
type CookieStore struct {
	codec  *Codec
	maxAge int
	secure bool
	w      http.ResponseWriter
	r      *http.Request

	cached id.AnonID
	loaded bool
}

// NewCookieStore binds a Store to one request/response pair.
func NewCookieStore(codec *Codec, maxAge int, secure bool, w http.ResponseWriter, r *http.Request) *CookieStore {
	return &CookieStore{codec: codec, maxAge: maxAge, secure: secure, w: w, r: r}
}

func (s *CookieStore) GetOrCreate() id.AnonID {
	if anonID := s.Peek(); !anonID.IsNil() {
		return anonID
	}
	anonID := id.NewAnonID()
	s.write(s.codec.Encode(anonID), s.maxAge)
	s.cached = anonID
	s.loaded = true
	return anonID
}

func (s *CookieStore) Peek() id.AnonID {
	if s.loaded {
		return s.cached
	}
	s.loaded = true
	cookie, err := s.r.Cookie(CookieName)
	if err != nil {
		s.cached = id.AnonID{}
		return s.cached
	}
	s.cached = s.codec.Decode(cookie.Value)
	return s.cached
}

func (s *CookieStore) Clear() {
	s.write("", -1)
	s.cached = id.AnonID{}
	s.loaded = true
}

func (s *CookieStore) write(value string, maxAge int) {
	http.SetCookie(s.w, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
