package bridge

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"watchface/internal/appmsg"
)

var validate = validator.New()

// tupleJSON carries exactly one of Int, Uint8 or Text.
type tupleJSON struct {
	Key   uint32  `json:"key"`
	Int   *int32  `json:"int,omitempty"`
	Uint8 *uint8  `json:"uint8,omitempty"`
	Text  *string `json:"text,omitempty" validate:"omitempty,max=255"`
}

type messageJSON struct {
	Tuples []tupleJSON `json:"tuples" validate:"required,min=1,max=32,dive"`
}

func (message messageJSON) dict() (appmsg.Dict, error) {
	if err := validate.Struct(message); err != nil {
		return appmsg.Dict{}, err
	}

	var dict appmsg.Dict
	for i, tuple := range message.Tuples {
		set := 0
		if tuple.Int != nil {
			set++
			dict.WriteInt32(appmsg.Key(tuple.Key), *tuple.Int)
		}
		if tuple.Uint8 != nil {
			set++
			dict.WriteUint8(appmsg.Key(tuple.Key), *tuple.Uint8)
		}
		if tuple.Text != nil {
			set++
			dict.WriteCString(appmsg.Key(tuple.Key), *tuple.Text)
		}
		if set != 1 {
			return appmsg.Dict{}, fmt.Errorf("tuple %d: exactly one of int, uint8 or text is required", i)
		}
	}
	return dict, nil
}

func encodeDict(dict appmsg.Dict) messageJSON {
	message := messageJSON{Tuples: make([]tupleJSON, 0, dict.Len())}
	for _, tuple := range dict.Tuples() {
		encoded := tupleJSON{Key: uint32(tuple.Key)}
		switch tuple.Value.Type() {
		case appmsg.TypeUint8:
			value := uint8(tuple.Value.Int())
			encoded.Uint8 = &value
		case appmsg.TypeInt32:
			value := tuple.Value.Int()
			encoded.Int = &value
		case appmsg.TypeCString:
			value := tuple.Value.Text()
			encoded.Text = &value
		}
		message.Tuples = append(message.Tuples, encoded)
	}
	return message
}
