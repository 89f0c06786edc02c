package sigs

import (
	"crypto/sha512"
	"encoding/binary"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/crypto"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/orm"
)

// SignCodeV1 prefixes the bytes a signature is built of.
var SignCodeV1 = []byte{0, 0xCA, 0xFE, 0}

var accounts = orm.NewModelBucket(BucketName, &Account{})

/*
BuildSignBytes combines the serialized transaction and the sequence into
the bytes that are signed:

	version | nonce             | signBytes
	4bytes  | int64 (bigendian) | serialized transaction

The result is prehashed with sha512.
*/
func BuildSignBytes(signBytes []byte, seq int64) ([]byte, error) {
	if seq < 0 {
		return nil, errors.Wrap(ErrInvalidSequence, "negative")
	}
	nonce := make([]byte, 8)
	binary.BigEndian.PutUint64(nonce, uint64(seq))

	output := make([]byte, 0, len(SignCodeV1)+len(nonce)+len(signBytes))
	output = append(output, SignCodeV1...)
	output = append(output, nonce...)
	output = append(output, signBytes...)

	hashed := sha512.Sum512(output)
	return hashed[:], nil
}

// SignTx creates a signature of the transaction with given sequence.
func SignTx(key *crypto.PrivateKey, tx SignedTx, seq int64) (*Signature, error) {
	raw, err := tx.GetSignBytes()
	if err != nil {
		return nil, errors.Wrap(err, "sign bytes")
	}
	bz, err := BuildSignBytes(raw, seq)
	if err != nil {
		return nil, err
	}
	return &Signature{
		PublicKey: key.PublicKey(),
		Signature: key.Sign(bz),
		Sequence:  seq,
	}, nil
}

// VerifyTxSignatures checks all signatures of the transaction and returns
// the conditions of the signers. Sequences of all signers are incremented.
func VerifyTxSignatures(db vault.KVStore, tx SignedTx) ([]vault.Condition, error) {
	raw, err := tx.GetSignBytes()
	if err != nil {
		return nil, errors.Wrap(err, "sign bytes")
	}
	sigs := tx.GetSignatures()
	signers := make([]vault.Condition, 0, len(sigs))
	for i, sig := range sigs {
		signer, err := VerifySignature(db, sig, raw)
		if err != nil {
			return nil, errors.Wrapf(err, "signature %d", i)
		}
		signers = append(signers, signer)
	}
	return signers, nil
}

// VerifySignature checks a single signature of signBytes and increments the
// sequence of the signer.
func VerifySignature(db vault.KVStore, sig *Signature, signBytes []byte) (vault.Condition, error) {
	if err := sig.Validate(); err != nil {
		return nil, err
	}
	acc, err := loadAccount(db, sig.PublicKey)
	if err != nil {
		return nil, err
	}
	bz, err := BuildSignBytes(signBytes, sig.Sequence)
	if err != nil {
		return nil, err
	}
	if !acc.PublicKey.Verify(bz, sig.Signature) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "invalid signature")
	}
	if err := acc.CheckAndIncrementSequence(sig.Sequence); err != nil {
		return nil, err
	}
	if err := accounts.Put(db, sig.PublicKey.Address(), acc); err != nil {
		return nil, err
	}
	return sig.PublicKey.Condition(), nil
}

// NextSequence returns the sequence the next signature of given signer
// must carry. Counting starts with zero.
func NextSequence(db vault.ReadOnlyKVStore, signer vault.Address) (int64, error) {
	var acc Account
	switch err := accounts.One(db, signer, &acc); {
	case err == nil:
		return acc.Sequence, nil
	case errors.ErrNotFound.Is(err):
		return 0, nil
	default:
		return 0, err
	}
}

func loadAccount(db vault.ReadOnlyKVStore, key crypto.PublicKey) (*Account, error) {
	var acc Account
	switch err := accounts.One(db, key.Address(), &acc); {
	case err == nil:
		return &acc, nil
	case errors.ErrNotFound.Is(err):
		return &Account{
			Metadata:  &vault.Metadata{Schema: 1},
			PublicKey: key,
		}, nil
	default:
		return nil, err
	}
}
