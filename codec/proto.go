package codec

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// ProtoBinary marshals protobuf messages to the binary wire format. Values
// must implement proto.Message.
type ProtoBinary struct{}

func (ProtoBinary) Name() string {
	return NameProto
}

func (ProtoBinary) Marshal(value any) ([]byte, error) {
	msg, err := asProtoMessage(value)
	if err != nil {
		return nil, err
	}
	return proto.Marshal(msg)
}

func (ProtoBinary) Unmarshal(data []byte, value any) error {
	msg, err := asProtoMessage(value)
	if err != nil {
		return err
	}
	return proto.Unmarshal(data, msg)
}

// ProtoJSON marshals protobuf messages to their canonical JSON encoding,
// trading compactness for a human-readable harvest.
type ProtoJSON struct{}

func (ProtoJSON) Name() string {
	return NameProtoJSON
}

func (ProtoJSON) Marshal(value any) ([]byte, error) {
	msg, err := asProtoMessage(value)
	if err != nil {
		return nil, err
	}
	return protojson.Marshal(msg)
}

func (ProtoJSON) Unmarshal(data []byte, value any) error {
	msg, err := asProtoMessage(value)
	if err != nil {
		return err
	}
	return protojson.Unmarshal(data, msg)
}

func asProtoMessage(value any) (proto.Message, error) {
	msg, ok := value.(proto.Message)
	if !ok {
		return nil, fmt.Errorf("%T does not implement proto.Message", value)
	}
	return msg, nil
}
