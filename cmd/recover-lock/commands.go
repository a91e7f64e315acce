package main

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/taurusgroup/recover-lock/pkg/ecdsa"
	"github.com/taurusgroup/recover-lock/pkg/host"
	"github.com/taurusgroup/recover-lock/pkg/lock"
	"gopkg.in/urfave/cli.v1"
)

// loadKey returns the key given by --key, the one derived from --seed, or a
// fresh random key when neither is set.
func loadKey(ctx *cli.Context) (*ecdsa.PrivateKey, error) {
	keyHex, seed := ctx.String(keyFlag.Name), ctx.String(seedFlag.Name)
	switch {
	case keyHex != "" && seed != "":
		return nil, errors.New("--key and --seed are mutually exclusive")
	case keyHex != "":
		data, err := hex.DecodeString(keyHex)
		if err != nil {
			return nil, fmt.Errorf("invalid --key: %w", err)
		}
		return ecdsa.PrivateKeyFromBytes(data)
	case seed != "":
		return ecdsa.KeyFromSeed([]byte(seed)), nil
	default:
		return ecdsa.GenerateKey(rand.Reader), nil
	}
}

func loadDigest(ctx *cli.Context) (lock.Digest, error) {
	s := ctx.String(digestFlag.Name)
	if s == "" {
		return lock.Digest{}, errors.New("--digest is required")
	}
	return lock.ParseDigest(s)
}

func keygen(ctx *cli.Context) error {
	sk, err := loadKey(ctx)
	if err != nil {
		return err
	}
	pk := sk.Public()
	w := ctx.App.Writer
	fmt.Fprintf(w, "secret key:  %x\n", sk.Bytes())
	fmt.Fprintf(w, "public key:  %x\n", pk.Compressed())
	fmt.Fprintf(w, "fingerprint: %s\n", lock.DeriveFingerprint(pk))
	return nil
}

func sign(ctx *cli.Context) error {
	sk, err := loadKey(ctx)
	if err != nil {
		return err
	}
	digest, err := loadDigest(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.App.Writer, "%x\n", ecdsa.SignRecoverable(sk, digest).WitnessLock())
	return nil
}

func fixture(ctx *cli.Context) error {
	log, err := newLogger(ctx)
	if err != nil {
		return err
	}
	out := ctx.String(outFlag.Name)
	if out == "" {
		return errors.New("--out is required")
	}
	sk, err := loadKey(ctx)
	if err != nil {
		return err
	}
	digest, err := loadDigest(ctx)
	if err != nil {
		return err
	}

	sig := ecdsa.SignRecoverable(sk, digest)
	if ctx.Bool(flipRecoveryIDFlag.Name) {
		sig.RecoveryID ^= 1
	}
	fp := lock.DeriveFingerprint(sk.Public())
	tx, err := host.NewTransaction(fp, digest, sig.WitnessLock())
	if err != nil {
		return err
	}
	if err := host.SaveFile(out, tx); err != nil {
		return err
	}
	log.Info().
		Str("path", out).
		Stringer("fingerprint", fp).
		Stringer("digest", digest).
		Uint8("recovery_id", sig.RecoveryID).
		Msg("wrote fixture")
	return nil
}

func verify(ctx *cli.Context) error {
	log, err := newLogger(ctx)
	if err != nil {
		return err
	}
	paths := ctx.Args()
	if len(paths) == 0 {
		return errors.New("no fixture given")
	}

	hosts := make([]lock.Host, 0, len(paths))
	for _, path := range paths {
		tx, err := host.LoadFile(path)
		if err != nil {
			return err
		}
		hosts = append(hosts, tx)
	}

	errs := lock.VerifyAll(hosts, ctx.Int(concurrencyFlag.Name), lock.WithLogger(log))

	status := lock.CodeSuccess
	for i, err := range errs {
		code := lock.StatusCode(err)
		fmt.Fprintf(ctx.App.Writer, "%s: %d\n", paths[i], code)
		if code != lock.CodeSuccess {
			log.Warn().Str("path", paths[i]).Err(err).Msg("not authorized")
			if status == lock.CodeSuccess {
				status = code
			}
		}
	}
	if status != lock.CodeSuccess {
		return cli.NewExitError(fmt.Sprintf("verification failed: %s", status), exitStatus(status))
	}
	return nil
}

// exitStatus turns a lock status into a process exit status. Codes without a
// status of their own exit with 1.
func exitStatus(code lock.ErrorCode) int {
	if code < 0 {
		return 1
	}
	return int(code)
}
