package abi

import (
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"golang.org/x/xerrors"
)

var (
	ErrUnknownEvent           = errors.New("unknown event")
	ErrEventSignatureMismatch = errors.New("event signature mismatch")
)

func mustParse(json string) abi.ABI {
	_abi, err := abi.JSON(strings.NewReader(json))
	if err != nil {
		panic("Failed to parse ABI")
	}
	return _abi
}

// PackEvent encodes an event the way solidity emits it, args follow the abi input order
func PackEvent(a abi.ABI, name string, args ...interface{}) ([]common.Hash, []byte, error) {
	ev, ok := a.Events[name]
	if !ok {
		return nil, nil, xerrors.Errorf("%s: %w", name, ErrUnknownEvent)
	}
	if len(args) != len(ev.Inputs) {
		return nil, nil, xerrors.Errorf("event %s expects %d args, got %d", name, len(ev.Inputs), len(args))
	}

	topics := []common.Hash{ev.ID}
	indexed := [][]interface{}{}
	data := []interface{}{}
	for i, in := range ev.Inputs {
		if in.Indexed {
			indexed = append(indexed, []interface{}{args[i]})
		} else {
			data = append(data, args[i])
		}
	}
	if len(indexed) > 0 {
		ts, err := abi.MakeTopics(indexed...)
		if err != nil {
			return nil, nil, xerrors.Errorf("failed to make topics of %s: %w", name, err)
		}
		for _, t := range ts {
			topics = append(topics, t[0])
		}
	}
	packed, err := ev.Inputs.NonIndexed().Pack(data...)
	if err != nil {
		return nil, nil, xerrors.Errorf("failed to pack %s: %w", name, err)
	}
	return topics, packed, nil
}

// UnpackLog decodes both data and indexed topics of a log into out
func UnpackLog(a abi.ABI, out interface{}, name string, log *types.Log) error {
	ev, ok := a.Events[name]
	if !ok {
		return xerrors.Errorf("%s: %w", name, ErrUnknownEvent)
	}
	if len(log.Topics) == 0 || log.Topics[0] != ev.ID {
		return ErrEventSignatureMismatch
	}
	if len(log.Data) > 0 {
		if err := a.UnpackIntoInterface(out, name, log.Data); err != nil {
			return err
		}
	}
	var indexed abi.Arguments
	for _, arg := range ev.Inputs {
		if arg.Indexed {
			indexed = append(indexed, arg)
		}
	}
	return abi.ParseTopics(out, indexed, log.Topics[1:])
}
