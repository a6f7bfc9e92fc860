package config

import (
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

// Options carries every recognized transform option. The zero value is not
// usable; start from DefaultOptions and layer overrides on top.
type Options struct {
	// Address is the named address the module is published under.
	Address string `mapstructure:"address" validate:"required"`

	// ModuleName overrides the module name derived from the contract name.
	ModuleName string `mapstructure:"module-name"`

	// OptimizationTier selects the storage partitioning strategy.
	OptimizationTier string `mapstructure:"optimization-tier" validate:"oneof=low medium high"`

	// Strict turns foldability warnings into hard errors.
	Strict bool `mapstructure:"strict"`

	// ReentrancyGuard selects how reentrancy modifiers are realized.
	ReentrancyGuard string `mapstructure:"reentrancy-guard" validate:"oneof=mutex none"`

	// StringRepr selects the target type for source string values.
	StringRepr string `mapstructure:"string-repr" validate:"oneof=string raw-bytes"`

	// InlineHints marks small private functions as inline.
	InlineHints bool `mapstructure:"inline-hints"`

	// EmitComments carries source doc comments onto emitted declarations.
	EmitComments bool `mapstructure:"emit-comments"`

	// ViewAnnotations marks read-only public functions #[view].
	ViewAnnotations bool `mapstructure:"view-annotations"`

	// ErrorReporting selects plain abort codes or error-module helpers.
	ErrorReporting string `mapstructure:"error-reporting" validate:"oneof=abort-codes verbose"`

	// EnumRepr selects native enum variants or integer constants.
	EnumRepr string `mapstructure:"enum-repr" validate:"oneof=native-variant integer-constants"`

	// ConstructorPattern selects the deployment scaffold.
	ConstructorPattern string `mapstructure:"constructor-pattern" validate:"oneof=direct-deployer resource-account named-object"`

	// InternalVisibility maps source internal functions to a target visibility.
	InternalVisibility string `mapstructure:"internal-visibility" validate:"oneof=private friend"`

	// OverflowPolicy selects checked aborts or generated wrapping helpers.
	OverflowPolicy string `mapstructure:"overflow-policy" validate:"oneof=abort wrapping"`

	// MapBacking selects the container backing associative maps.
	MapBacking string `mapstructure:"map-backing" validate:"oneof=hash-table ordered-table"`

	// AccessControl selects inline assertions or capability objects.
	AccessControl string `mapstructure:"access-control" validate:"oneof=inline-assert capability-object"`

	// Upgradeability selects the publish model.
	Upgradeability string `mapstructure:"upgradeability" validate:"oneof=immutable resource-account-controlled"`

	// OptionalRepr selects how absent values are represented.
	OptionalRepr string `mapstructure:"optional-repr" validate:"oneof=sentinel-zero-address option-type"`

	// CallStyle selects module-qualified calls or receiver syntax.
	CallStyle string `mapstructure:"call-style" validate:"oneof=module-qualified receiver-syntax"`

	// EventStyle selects how events are emitted.
	EventStyle string `mapstructure:"event-style" validate:"oneof=native-event handle-based none"`

	// AuthorityParam names the synthesized caller parameter.
	AuthorityParam string `mapstructure:"authority-param" validate:"required"`

	// EmitAllStandardErrors emits the whole standard error catalog instead
	// of only referenced constants.
	EmitAllStandardErrors bool `mapstructure:"emit-all-standard-errors"`

	// ErrorCodeWidth is the bit width of emitted error constants.
	ErrorCodeWidth int `mapstructure:"error-code-width" validate:"oneof=8 16 32 64"`

	// IndexSyntax emits bracket indexing instead of borrow calls where the
	// target supports it.
	IndexSyntax bool `mapstructure:"index-syntax"`

	// AcquiresStyle emits explicit acquires clauses or leaves them to the
	// target compiler.
	AcquiresStyle string `mapstructure:"acquires-style" validate:"oneof=explicit compiler-inferred"`
}

// Values for the enum options above.
const (
	TierLow    = "low"
	TierMedium = "medium"
	TierHigh   = "high"

	GuardMutex = "mutex"
	GuardNone  = "none"

	StringUTF8  = "string"
	StringBytes = "raw-bytes"

	ReportAbortCodes = "abort-codes"
	ReportVerbose    = "verbose"

	EnumNative    = "native-variant"
	EnumConstants = "integer-constants"

	DeployDirect          = "direct-deployer"
	DeployResourceAccount = "resource-account"
	DeployNamedObject     = "named-object"

	VisibilityPrivate = "private"
	VisibilityFriend  = "friend"

	OverflowAbort    = "abort"
	OverflowWrapping = "wrapping"

	BackingHashTable  = "hash-table"
	BackingOrderedMap = "ordered-table"

	AccessInlineAssert = "inline-assert"
	AccessCapability   = "capability-object"

	UpgradeImmutable       = "immutable"
	UpgradeResourceAccount = "resource-account-controlled"

	OptionalSentinel = "sentinel-zero-address"
	OptionalOption   = "option-type"

	CallModuleQualified = "module-qualified"
	CallReceiver        = "receiver-syntax"

	EventNative  = "native-event"
	EventHandles = "handle-based"
	EventNone    = "none"

	AcquiresExplicit = "explicit"
	AcquiresInferred = "compiler-inferred"
)

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		Address:            "self",
		OptimizationTier:   TierLow,
		ReentrancyGuard:    GuardMutex,
		StringRepr:         StringUTF8,
		EmitComments:       true,
		ViewAnnotations:    true,
		ErrorReporting:     ReportAbortCodes,
		EnumRepr:           EnumNative,
		ConstructorPattern: DeployDirect,
		InternalVisibility: VisibilityPrivate,
		OverflowPolicy:     OverflowAbort,
		MapBacking:         BackingHashTable,
		AccessControl:      AccessInlineAssert,
		Upgradeability:     UpgradeImmutable,
		OptionalRepr:       OptionalSentinel,
		CallStyle:          CallModuleQualified,
		EventStyle:         EventNative,
		AuthorityParam:     "caller",
		ErrorCodeWidth:     64,
		AcquiresStyle:      AcquiresExplicit,
	}
}

var (
	once sync.Once
	v    *validator.Validate
)

// Validator returns a singleton used to validate option structs
func Validator() *validator.Validate {
	once.Do(func() {
		v = validator.New()
	})
	return v
}

// Validate checks every enum option against its allowed values.
func (o *Options) Validate() error {
	if err := Validator().Struct(o); err != nil {
		return errors.Wrap(err, "invalid options")
	}
	return nil
}

// Decode layers a language-agnostic option map over the defaults and
// validates the result. Unknown keys are rejected.
func Decode(raw map[string]any) (Options, error) {
	opts := DefaultOptions()

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &opts,
		ErrorUnused: true,
	})
	if err != nil {
		return opts, errors.Wrap(err, "build options decoder")
	}
	if err := decoder.Decode(raw); err != nil {
		return opts, errors.Wrap(err, "decode options")
	}
	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}
