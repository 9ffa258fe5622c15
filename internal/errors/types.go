package errors

import (
	"fmt"
)

// ErrorSeverity defines the severity level of an error
type ErrorSeverity int

const (
	SeverityInfo ErrorSeverity = iota
	SeverityWarning
	SeverityError
	SeverityCritical
)

// String returns the string representation of the severity
func (s ErrorSeverity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// Diagnostic codes published on the MQTT diagnostic topic
const (
	CodeOK              = 0
	CodeCatalogConflict = 1
	CodeModbusTransport = 2
	CodeDecodeFailure   = 3
	CodeMQTTFailure     = 4
	CodeConfigError     = 5
)

// BridgeError is the base error type for all bridge errors
type BridgeError struct {
	Op       string        // Operation that failed
	Err      error         // Underlying error
	Severity ErrorSeverity // Error severity
	Code     int           // Diagnostic code for MQTT
}

// Error implements the error interface
func (e *BridgeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Severity, e.Op, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Severity, e.Op)
}

// Unwrap returns the underlying error
func (e *BridgeError) Unwrap() error {
	return e.Err
}

// UnknownQuantityError reports a catalog lookup for a name that was never
// declared. This is a programmer error: callers pass quantity names from the
// catalog itself, so a miss means the call site is wrong, not the device.
type UnknownQuantityError struct {
	BridgeError
	Name string
}

// NewUnknownQuantityError creates a new unknown quantity error
func NewUnknownQuantityError(name string) *UnknownQuantityError {
	return &UnknownQuantityError{
		BridgeError: BridgeError{
			Op:       "catalog lookup",
			Severity: SeverityError,
			Code:     CodeCatalogConflict,
		},
		Name: name,
	}
}

// Error implements the error interface
func (e *UnknownQuantityError) Error() string {
	return fmt.Sprintf("[%s] catalog has no quantity %q", e.Severity, e.Name)
}

// OutOfRangeError reports a quantity whose registers fall outside the raw
// word block that was actually returned. Recovered per quantity, never fatal
// for the rest of the block.
type OutOfRangeError struct {
	BridgeError
	Name       string
	Address    uint16
	Words      uint8
	BlockStart uint16
	BlockLen   int
}

// NewOutOfRangeError creates a new out of range error
func NewOutOfRangeError(name string, address uint16, words uint8, blockStart uint16, blockLen int) *OutOfRangeError {
	return &OutOfRangeError{
		BridgeError: BridgeError{
			Op:       "map block",
			Severity: SeverityWarning,
			Code:     CodeDecodeFailure,
		},
		Name:       name,
		Address:    address,
		Words:      words,
		BlockStart: blockStart,
		BlockLen:   blockLen,
	}
}

// Error implements the error interface
func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("[%s] %s needs registers %d..%d but block covers %d..%d",
		e.Severity, e.Name, e.Address, int(e.Address)+int(e.Words)-1,
		e.BlockStart, int(e.BlockStart)+e.BlockLen-1)
}

// InvalidEncodingError reports a 2-word float32 whose bit pattern decodes to
// NaN or an infinity. The raw words are carried for offline diagnosis.
type InvalidEncodingError struct {
	BridgeError
	Name     string
	WordHigh uint16
	WordLow  uint16
}

// NewInvalidEncodingError creates a new invalid encoding error
func NewInvalidEncodingError(name string, hi, lo uint16) *InvalidEncodingError {
	return &InvalidEncodingError{
		BridgeError: BridgeError{
			Op:       "decode float32",
			Severity: SeverityWarning,
			Code:     CodeDecodeFailure,
		},
		Name:     name,
		WordHigh: hi,
		WordLow:  lo,
	}
}

// Error implements the error interface
func (e *InvalidEncodingError) Error() string {
	return fmt.Sprintf("[%s] %s: words 0x%04X 0x%04X are not a finite float32",
		e.Severity, e.Name, e.WordHigh, e.WordLow)
}

// OverlapConflictError reports two catalog entries claiming intersecting
// register ranges. Critical: the map cannot be trusted, polling must not start.
type OverlapConflictError struct {
	BridgeError
	NameA string
	NameB string
}

// NewOverlapConflictError creates a new overlap conflict error
func NewOverlapConflictError(nameA, nameB string) *OverlapConflictError {
	return &OverlapConflictError{
		BridgeError: BridgeError{
			Op:       "catalog validation",
			Severity: SeverityCritical,
			Code:     CodeCatalogConflict,
		},
		NameA: nameA,
		NameB: nameB,
	}
}

// Error implements the error interface
func (e *OverlapConflictError) Error() string {
	return fmt.Sprintf("[%s] quantities %q and %q claim overlapping registers",
		e.Severity, e.NameA, e.NameB)
}

// WidthMismatchError reports an entry whose declared word count does not
// match what its encoding requires.
type WidthMismatchError struct {
	BridgeError
	Name     string
	Declared uint8
	Required uint8
}

// NewWidthMismatchError creates a new width mismatch error
func NewWidthMismatchError(name string, declared, required uint8) *WidthMismatchError {
	return &WidthMismatchError{
		BridgeError: BridgeError{
			Op:       "catalog validation",
			Severity: SeverityCritical,
			Code:     CodeCatalogConflict,
		},
		Name:     name,
		Declared: declared,
		Required: required,
	}
}

// Error implements the error interface
func (e *WidthMismatchError) Error() string {
	return fmt.Sprintf("[%s] quantity %q declares %d word(s) but its encoding needs %d",
		e.Severity, e.Name, e.Declared, e.Required)
}

// BlockTooShortError reports a fetch block whose count does not cover every
// entry mapped into it.
type BlockTooShortError struct {
	BridgeError
	Group string
	Name  string
	Count uint16
	Need  uint16
}

// NewBlockTooShortError creates a new block too short error
func NewBlockTooShortError(group, name string, count, need uint16) *BlockTooShortError {
	return &BlockTooShortError{
		BridgeError: BridgeError{
			Op:       "catalog validation",
			Severity: SeverityCritical,
			Code:     CodeCatalogConflict,
		},
		Group: group,
		Name:  name,
		Count: count,
		Need:  need,
	}
}

// Error implements the error interface
func (e *BlockTooShortError) Error() string {
	return fmt.Sprintf("[%s] block %q reads %d word(s) but %q needs %d",
		e.Severity, e.Group, e.Count, e.Name, e.Need)
}

// TransportError represents errors from the Modbus transport
type TransportError struct {
	BridgeError
	SlaveID uint8
	Address uint16
	Count   uint16
}

// NewTransportError creates a new transport error
func NewTransportError(op string, err error, slaveID uint8, address, count uint16) *TransportError {
	return &TransportError{
		BridgeError: BridgeError{
			Op:       op,
			Err:      err,
			Severity: SeverityError,
			Code:     CodeModbusTransport,
		},
		SlaveID: slaveID,
		Address: address,
		Count:   count,
	}
}

// Error implements the error interface
func (e *TransportError) Error() string {
	return fmt.Sprintf("[%s] modbus slave %d registers %d+%d: %s: %v",
		e.Severity, e.SlaveID, e.Address, e.Count, e.Op, e.Err)
}

// MQTTError represents errors from MQTT operations
type MQTTError struct {
	BridgeError
	Broker string
	Topic  string
}

// NewMQTTError creates a new MQTT error
func NewMQTTError(op string, err error, broker string) *MQTTError {
	return &MQTTError{
		BridgeError: BridgeError{
			Op:       op,
			Err:      err,
			Severity: SeverityError,
			Code:     CodeMQTTFailure,
		},
		Broker: broker,
	}
}

// Error implements the error interface
func (e *MQTTError) Error() string {
	if e.Topic != "" {
		return fmt.Sprintf("[%s] MQTT broker '%s' (topic: %s): %s: %v",
			e.Severity, e.Broker, e.Topic, e.Op, e.Err)
	}
	return fmt.Sprintf("[%s] MQTT broker '%s': %s: %v",
		e.Severity, e.Broker, e.Op, e.Err)
}

// ConfigError represents configuration errors
type ConfigError struct {
	BridgeError
	Field string
}

// NewConfigError creates a new configuration error
func NewConfigError(op string, err error, field string) *ConfigError {
	return &ConfigError{
		BridgeError: BridgeError{
			Op:       op,
			Err:      err,
			Severity: SeverityCritical,
			Code:     CodeConfigError,
		},
		Field: field,
	}
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("[%s] Configuration field '%s': %s: %v",
			e.Severity, e.Field, e.Op, e.Err)
	}
	return fmt.Sprintf("[%s] Configuration: %s: %v",
		e.Severity, e.Op, e.Err)
}
