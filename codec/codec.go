// Package codec defines the pluggable serialization boundary used by the
// staging store's object-convenience layer. The store's raw byte primitives
// never touch a codec, so any format can be layered on without changing the
// store contract.
package codec

import (
	"fmt"
	"sync"
)

// Names of the built-in codecs.
const (
	NameJSON      = "json"
	NameProto     = "proto"
	NameProtoJSON = "protojson"
)

// A Codec marshals values to and from bytes.
type Codec interface {
	// Name identifies the codec for config-driven selection.
	Name() string
	// Marshal encodes a value to bytes.
	Marshal(any) ([]byte, error)
	// Unmarshal decodes bytes into a pointer to a value.
	Unmarshal([]byte, any) error
}

var (
	codecs = map[string]Codec{
		NameJSON:      JSON{},
		NameProto:     ProtoBinary{},
		NameProtoJSON: ProtoJSON{},
	}
	mutex sync.RWMutex
)

// Get returns a registered codec by name.
// Pre-registered codecs: "json", "proto", and "protojson".
func Get(name string) (Codec, error) {
	mutex.RLock()
	defer mutex.RUnlock()

	c, exists := codecs[name]
	if !exists {
		return nil, fmt.Errorf("unknown codec: %s", name)
	}
	return c, nil
}

// Register adds or replaces a codec in the global registry under its Name.
func Register(c Codec) {
	mutex.Lock()
	defer mutex.Unlock()

	codecs[c.Name()] = c
}
