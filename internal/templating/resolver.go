package templating

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/cbo-qa/cbo-smoke/internal/models"
	"github.com/cbo-qa/cbo-smoke/internal/util"
	srvErrors "github.com/cbo-qa/cbo-smoke/pkg/errors"
)

const (
	referencePrefix = "CBOSMOKE"
	firstNamePrefix = "CBOSmokeFN"
	lastNamePrefix  = "CBOSmokeLN"

	// OntarioJurisdiction switches registration numbers to the 20 digit form.
	OntarioJurisdiction = "ON"

	isoMillis = "2006-01-02T15:04:05.000Z07:00"
)

// Inputs carries everything a generator may depend on.
type Inputs struct {
	Now              time.Time
	Term             int
	RegistrationDate string
	Jurisdiction     string
	Random           func(n int) int
}

type GeneratorFunc func(in Inputs) (string, error)

var defaultGenerators = map[Kind]GeneratorFunc{
	KindReference: func(in Inputs) (string, error) {
		return referencePrefix + in.Now.Format("200601021504"), nil
	},
	KindTransactionID: func(in Inputs) (string, error) {
		return util.LastDigits(in.Now.UnixMilli(), 9), nil
	},
	KindContractID:         epochTail10,
	KindContractDebtorID:   epochTail10,
	KindSerialCollateralID: epochTail10,
	KindTransactionCreated: func(in Inputs) (string, error) {
		return in.Now.UTC().Format(isoMillis), nil
	},
	KindFirstName: func(in Inputs) (string, error) {
		return firstNamePrefix + in.Now.Format("20060102_150405"), nil
	},
	KindLastName: func(in Inputs) (string, error) {
		return lastNamePrefix + in.Now.Format("20060102_150405"), nil
	},
	KindRegistrationToday: func(in Inputs) (string, error) {
		return util.DateOnly(in.Now.UTC()), nil
	},
	KindRegistrationMinus11Mon: func(in Inputs) (string, error) {
		return util.DateOnly(in.Now.UTC().AddDate(0, -11, 0)), nil
	},
	KindExpiryDate: func(in Inputs) (string, error) {
		reg, err := util.ParseDate(in.RegistrationDate)
		if err != nil {
			return "", err
		}
		return util.DateOnly(reg.AddDate(in.Term, 0, 0)), nil
	},
	KindRegistrationNumber: func(in Inputs) (string, error) {
		if in.Jurisdiction == OntarioJurisdiction {
			return in.Now.Format("20060102150405") + fmt.Sprintf("%06d", in.Random(1_000_000)), nil
		}
		return in.Jurisdiction + util.LastDigits(in.Now.UnixMilli(), 8), nil
	},
}

func epochTail10(in Inputs) (string, error) {
	return util.LastDigits(in.Now.UnixMilli(), 10), nil
}

// Resolver expands placeholders in test data into concrete values.
type Resolver struct {
	now        func() time.Time
	random     func(n int) int
	generators map[Kind]GeneratorFunc
}

type Option func(*Resolver)

func WithClock(now func() time.Time) Option {
	return func(r *Resolver) {
		r.now = now
	}
}

func WithRandom(random func(n int) int) Option {
	return func(r *Resolver) {
		r.random = random
	}
}

// WithGenerator overrides the generator used for kind.
func WithGenerator(kind Kind, fn GeneratorFunc) Option {
	return func(r *Resolver) {
		r.generators[kind] = fn
	}
}

func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		now:        time.Now,
		random:     rand.IntN,
		generators: make(map[Kind]GeneratorFunc, len(defaultGenerators)),
	}
	for k, fn := range defaultGenerators {
		r.generators[k] = fn
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Eval turns a Value into a string, running the generator for generate
// requests and returning literals untouched.
func (r *Resolver) Eval(v Value, in Inputs) (string, error) {
	kind, ok := v.Kind()
	if !ok {
		return v.Literal(), nil
	}
	fn, err := r.Lookup(kind)
	if err != nil {
		return "", err
	}
	if in.Random == nil {
		in.Random = r.random
	}
	return fn(in)
}

// Resolve expands every templated field of td. All generators observe the
// same instant.
func (r *Resolver) Resolve(td models.TestData) (models.ResolvedRecord, error) {
	in := Inputs{
		Now:          r.now(),
		Term:         util.AtoiOrZero(td.Term),
		Jurisdiction: td.LienJurisdictionCode,
		Random:       r.random,
	}

	rec := models.ResolvedRecord{Source: td, Term: in.Term}

	fields := []struct {
		name string
		raw  string
		dst  *string
	}{
		{FieldReference, td.Reference, &rec.Reference},
		{FieldTransactionID, td.TransactionID, &rec.TransactionID},
		{FieldRegistrationDate, td.RegistrationDate, &rec.RegistrationDate},
		{FieldContractID, td.ContractID, &rec.ContractID},
		{FieldContractDebtorID, td.ContractDebtorID, &rec.ContractDebtorID},
		{FieldTransactionCreatedDateTime, td.TransactionCreatedDateTime, &rec.TransactionCreatedDateTime},
		{FieldSerialCollateralID, td.ContractSerialCollateralID, &rec.SerialCollateralID},
		{FieldFirstName, td.FirstName, &rec.FirstName},
		{FieldLastName, td.LastName, &rec.LastName},
	}
	for _, f := range fields {
		v, err := r.Eval(Parse(f.name, f.raw), in)
		if err != nil {
			return models.ResolvedRecord{}, srvErrors.NewInvalidTemplateError(f.name, f.raw, err)
		}
		*f.dst = v
	}

	in.RegistrationDate = rec.RegistrationDate
	expiry, err := r.Eval(ParseOptional(FieldExpiryDate, td.ExpiryDate), in)
	if err != nil {
		return models.ResolvedRecord{}, srvErrors.NewInvalidTemplateError(FieldExpiryDate, util.StringOrEmpty(td.ExpiryDate), err)
	}
	rec.ExpiryDate = expiry

	regNumber, err := r.Eval(Generate(KindRegistrationNumber), in)
	if err != nil {
		return models.ResolvedRecord{}, srvErrors.NewInvalidTemplateError("RegistrationNumber", td.LienJurisdictionCode, err)
	}
	rec.RegistrationNumber = regNumber

	return rec, nil
}

// ErrUnknownKind is returned by Lookup for kinds without a generator.
var ErrUnknownKind = errors.New("unknown generator kind")

// Lookup returns the generator registered for kind.
func (r *Resolver) Lookup(kind Kind) (GeneratorFunc, error) {
	fn, ok := r.generators[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	return fn, nil
}
