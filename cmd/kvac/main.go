// kvac is the command-line interface to this module's anonymous-credential
// system: issuer key generation, credential issuance, presentation, and
// verifiable encryption, each as its own subcommand writing and reading the
// JSON artifacts internal/wire defines. Modeled on cmd/drand-cli's single
// cli.App with one flat command list, not drand's daemon/control-port split,
// since every operation here is a one-shot local computation.
package main

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/chasep/kvac/credential"
	"github.com/chasep/kvac/internal/amac"
	"github.com/chasep/kvac/internal/group"
	"github.com/chasep/kvac/internal/log"
	"github.com/chasep/kvac/internal/metrics"
	pprofhandler "github.com/chasep/kvac/internal/metrics/pprof"
	"github.com/chasep/kvac/internal/symmetric"
	"github.com/chasep/kvac/internal/wire"
	"github.com/chasep/kvac/params"
)

var (
	version   = "dev"
	gitCommit = "none"
	buildDate = "unknown"
)

var output = os.Stdout

// sessionLogger is tagged with a fresh session id in app.Before, so every
// log line from a single invocation of the CLI can be correlated even when
// several runs interleave in a shared log stream.
var sessionLogger = log.Default()

func banner() {
	fmt.Fprintf(output, "kvac %v (date %v, commit %v)\n", version, buildDate, gitCommit)
}

var folderFlag = &cli.StringFlag{
	Name:  "folder",
	Value: ".",
	Usage: "Directory holding this deployment's JSON artifacts (params.json, issuer_secret.json, issuer_params.json, ...).",
}

var seedFlag = &cli.StringFlag{
	Name:  "seed",
	Value: "kvac/v1",
	Usage: "Domain-separation seed for deriving System Parameters. Two deployments sharing a seed and attribute count are cryptographically identical.",
}

var attrsFlag = &cli.IntFlag{
	Name:     "attrs",
	Usage:    "NUMBER_OF_ATTRIBUTES for this deployment.",
	Required: true,
}

var attrsFileFlag = &cli.StringFlag{
	Name:     "attrs-file",
	Usage:    "Path to a JSON array of attribute values, each {\"kind\": public_scalar|secret_scalar|public_point|secret_point, \"scalar\" or \"point\": {\"hex\": ...}}.",
	Required: true,
}

var outFlag = &cli.StringFlag{
	Name:  "out",
	Usage: "Write output to this file instead of the folder's default name.",
}

func appCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "init",
			Usage: "Derive System Parameters and generate a fresh issuer key pair.",
			Flags: []cli.Flag{folderFlag, seedFlag, attrsFlag},
			Action: func(c *cli.Context) error {
				banner()
				return initCmd(c)
			},
		},
		{
			Name:  "keygen-encryption",
			Usage: "Generate a symmetric verifiable-encryption key pair (spec §4.4).",
			Flags: []cli.Flag{folderFlag},
			Action: func(c *cli.Context) error {
				return keygenEncryptionCmd(c)
			},
		},
		{
			Name:  "issue",
			Usage: "Issue a fresh aMAC over an attribute vector and prove it was computed correctly.",
			Flags: []cli.Flag{folderFlag, attrsFileFlag, outFlag},
			Action: func(c *cli.Context) error {
				return issueCmd(c)
			},
		},
		{
			Name:  "present",
			Usage: "Prove possession of a valid credential, randomizing it for this presentation.",
			Flags: []cli.Flag{folderFlag, attrsFileFlag, &cli.StringFlag{Name: "credential", Required: true}, outFlag},
			Action: func(c *cli.Context) error {
				return presentCmd(c)
			},
		},
		{
			Name:  "verify",
			Usage: "Verify a Proof of Issuance, a Presentation, or a Proof of Encryption.",
			Subcommands: []*cli.Command{
				{
					Name:  "issuance",
					Flags: []cli.Flag{folderFlag, attrsFileFlag, &cli.StringFlag{Name: "credential", Required: true}, &cli.StringFlag{Name: "proof", Required: true}},
					Action: func(c *cli.Context) error {
						return verifyIssuanceCmd(c)
					},
				},
				{
					Name:  "presentation",
					Flags: []cli.Flag{folderFlag, attrsFileFlag, &cli.StringFlag{Name: "presentation", Required: true}},
					Action: func(c *cli.Context) error {
						return verifyPresentationCmd(c)
					},
				},
				{
					Name:  "encryption",
					Flags: []cli.Flag{folderFlag, &cli.StringFlag{Name: "ciphertext", Required: true}, &cli.StringFlag{Name: "proof", Required: true}},
					Action: func(c *cli.Context) error {
						return verifyEncryptionCmd(c)
					},
				},
			},
		},
		{
			Name:  "encrypt",
			Usage: "Encrypt a 30-byte plaintext and prove it binds to a presentation's nonce (spec §4.4).",
			Flags: []cli.Flag{
				folderFlag,
				&cli.StringFlag{Name: "presentation-z", Required: true, Usage: "Path to the _z.json nonce sidecar written by present."},
				&cli.StringFlag{Name: "plaintext", Required: true, Usage: "Exactly 30 bytes of plaintext."},
				outFlag,
			},
			Action: func(c *cli.Context) error {
				return encryptCmd(c)
			},
		},
		{
			Name:  "decrypt",
			Usage: "Decrypt a ciphertext produced by encrypt, given the holder's m3.",
			Flags: []cli.Flag{
				folderFlag,
				&cli.StringFlag{Name: "ciphertext", Required: true},
				&cli.StringFlag{Name: "m3", Required: true, Usage: "Hex-encoded m3 scalar printed by encrypt."},
			},
			Action: func(c *cli.Context) error {
				return decryptCmd(c)
			},
		},
		{
			Name:  "metrics-server",
			Usage: "Serve Prometheus metrics (and pprof) for a long-running process embedding this module.",
			Flags: []cli.Flag{&cli.StringFlag{Name: "listen", Value: "9105"}},
			Action: func(c *cli.Context) error {
				return metricsServerCmd(c)
			},
		},
	}
}

// CLI builds the kvac cli.App.
func CLI() *cli.App {
	app := cli.NewApp()
	app.Name = "kvac"
	app.Usage = "keyed-verification anonymous credentials over algebraic MACs"
	app.Version = version
	app.Commands = appCommands()
	app.Before = func(c *cli.Context) error {
		sessionLogger = log.Default().With("session", uuid.New().String())
		sessionLogger.Debugw("kvac invoked", "command", c.Args().First())
		return nil
	}
	return app
}

func main() {
	if err := CLI().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "kvac: %v\n", err)
		os.Exit(1)
	}
}

// --- shared helpers ---

func readJSON(path string, v interface{}) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

func writeJSON(path string, v interface{}) error {
	b, err := wire.MarshalJSONIndent(v)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}

func paramsPath(folder string) string       { return filepath.Join(folder, "params.json") }
func secretKeyPath(folder string) string    { return filepath.Join(folder, "issuer_secret.json") }
func issuerParamsPath(folder string) string { return filepath.Join(folder, "issuer_params.json") }
func encKeypairPath(folder string) string   { return filepath.Join(folder, "enc_keypair.json") }

func loadParams(g *group.Group, folder string) (*params.SystemParameters, error) {
	var w params.Wire
	if err := readJSON(paramsPath(folder), &w); err != nil {
		return nil, fmt.Errorf("loading params.json: %w", err)
	}
	return params.FromWire(g, w)
}

func loadIssuerParams(g *group.Group, folder string) (*amac.IssuerParameters, error) {
	var w amac.IssuerParametersWire
	if err := readJSON(issuerParamsPath(folder), &w); err != nil {
		return nil, fmt.Errorf("loading issuer_params.json: %w", err)
	}
	return amac.IssuerParametersFromWire(g, w)
}

func loadSecretKey(g *group.Group, folder string) (*amac.SecretKey, error) {
	var w amac.SecretKeyWire
	if err := readJSON(secretKeyPath(folder), &w); err != nil {
		return nil, fmt.Errorf("loading issuer_secret.json: %w", err)
	}
	return amac.SecretKeyFromWire(g, w)
}

func loadAttrs(g *group.Group, path string) (amac.AttributeVector, error) {
	var ws []amac.AttributeWire
	if err := readJSON(path, &ws); err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return amac.AttributeVectorFromWire(g, ws)
}

// --- command implementations ---

func initCmd(c *cli.Context) error {
	g := group.New()
	n := c.Int(attrsFlag.Name)
	seed := c.String(seedFlag.Name)
	folder := c.String(folderFlag.Name)

	if err := os.MkdirAll(folder, 0o755); err != nil {
		return err
	}

	sp, err := params.New(g, seed, n)
	if err != nil {
		return err
	}
	if err := writeJSON(paramsPath(folder), sp.ToWire(g, seed)); err != nil {
		return err
	}

	sk := amac.GenerateSecretKey(g, sp, rand.Reader)
	ip := sk.Parameters(g, sp)
	if err := writeJSON(secretKeyPath(folder), sk.ToWire(g)); err != nil {
		return err
	}
	if err := writeJSON(issuerParamsPath(folder), ip.ToWire(g)); err != nil {
		return err
	}

	fmt.Fprintf(output, "initialized deployment with %d attributes in %s\n", n, folder)
	return nil
}

func keygenEncryptionCmd(c *cli.Context) error {
	g := group.New()
	folder := c.String(folderFlag.Name)
	sp, err := loadParams(g, folder)
	if err != nil {
		return err
	}
	if !sp.SupportsEncryption() {
		return params.ErrTooFewAttributesForEncryption
	}
	kp := symmetric.GenerateKeypair(g, sp, rand.Reader)
	return writeJSON(encKeypairPath(folder), kp.ToWire(g))
}

func issueCmd(c *cli.Context) error {
	g := group.New()
	folder := c.String(folderFlag.Name)

	sp, err := loadParams(g, folder)
	if err != nil {
		return err
	}
	sk, err := loadSecretKey(g, folder)
	if err != nil {
		return err
	}
	ip, err := loadIssuerParams(g, folder)
	if err != nil {
		return err
	}
	attrs, err := loadAttrs(g, c.String(attrsFileFlag.Name))
	if err != nil {
		return err
	}

	cred, err := amac.Issue(g, sp, sk, attrs, rand.Reader)
	if err != nil {
		return err
	}
	proof, err := credential.ProveIssuance(g, sp, sk, ip, cred, attrs)
	if err != nil {
		return err
	}

	out := c.String(outFlag.Name)
	if out == "" {
		out = filepath.Join(folder, "credential.json")
	}
	if err := writeJSON(out, cred.ToWire(g)); err != nil {
		return err
	}
	proofOut := strings.TrimSuffix(out, ".json") + "_issuance_proof.json"
	if err := writeJSON(proofOut, proof.ToWire(g)); err != nil {
		return err
	}
	fmt.Fprintf(output, "issued credential -> %s (proof -> %s)\n", out, proofOut)
	return nil
}

func verifyIssuanceCmd(c *cli.Context) error {
	g := group.New()
	folder := c.String(folderFlag.Name)

	sp, err := loadParams(g, folder)
	if err != nil {
		return err
	}
	ip, err := loadIssuerParams(g, folder)
	if err != nil {
		return err
	}
	attrs, err := loadAttrs(g, c.String(attrsFileFlag.Name))
	if err != nil {
		return err
	}
	var credWire amac.CredentialWire
	if err := readJSON(c.String("credential"), &credWire); err != nil {
		return err
	}
	cred, err := amac.CredentialFromWire(g, credWire)
	if err != nil {
		return err
	}
	var proofWire credential.ProofOfIssuanceWire
	if err := readJSON(c.String("proof"), &proofWire); err != nil {
		return err
	}
	pf, err := credential.ProofOfIssuanceFromWire(g, proofWire)
	if err != nil {
		return err
	}

	if err := credential.VerifyIssuance(g, sp, ip, cred, attrs, pf); err != nil {
		return err
	}
	fmt.Fprintln(output, "issuance proof OK")
	return nil
}

func presentCmd(c *cli.Context) error {
	g := group.New()
	folder := c.String(folderFlag.Name)

	sp, err := loadParams(g, folder)
	if err != nil {
		return err
	}
	ip, err := loadIssuerParams(g, folder)
	if err != nil {
		return err
	}
	attrs, err := loadAttrs(g, c.String(attrsFileFlag.Name))
	if err != nil {
		return err
	}
	var credWire amac.CredentialWire
	if err := readJSON(c.String("credential"), &credWire); err != nil {
		return err
	}
	cred, err := amac.CredentialFromWire(g, credWire)
	if err != nil {
		return err
	}

	pres, z, err := credential.ProveValidCredential(g, sp, ip, cred, attrs, rand.Reader)
	if err != nil {
		return err
	}

	out := c.String(outFlag.Name)
	if out == "" {
		out = filepath.Join(folder, "presentation.json")
	}
	if err := writeJSON(out, pres.ToWire(g)); err != nil {
		return err
	}
	zOut := strings.TrimSuffix(out, ".json") + "_z.json"
	if err := writeJSON(zOut, wire.EncodeScalar(g, z)); err != nil {
		return err
	}
	fmt.Fprintf(output, "presentation -> %s (nonce sidecar -> %s, keep this private)\n", out, zOut)
	return nil
}

func verifyPresentationCmd(c *cli.Context) error {
	g := group.New()
	folder := c.String(folderFlag.Name)

	sp, err := loadParams(g, folder)
	if err != nil {
		return err
	}
	ip, err := loadIssuerParams(g, folder)
	if err != nil {
		return err
	}
	attrs, err := loadAttrs(g, c.String(attrsFileFlag.Name))
	if err != nil {
		return err
	}
	var presWire credential.PresentationWire
	if err := readJSON(c.String("presentation"), &presWire); err != nil {
		return err
	}
	pres, err := credential.PresentationFromWire(g, presWire)
	if err != nil {
		return err
	}

	if err := credential.VerifyValidCredential(g, sp, ip, attrs, pres); err != nil {
		return err
	}
	fmt.Fprintln(output, "presentation OK")
	return nil
}

func parsePlaintext(s string) ([symmetric.PlaintextLen]byte, error) {
	var out [symmetric.PlaintextLen]byte
	b := []byte(s)
	if len(b) != symmetric.PlaintextLen {
		return out, fmt.Errorf("kvac: plaintext must be exactly %d bytes, got %d", symmetric.PlaintextLen, len(b))
	}
	copy(out[:], b)
	return out, nil
}

func encryptCmd(c *cli.Context) error {
	g := group.New()
	folder := c.String(folderFlag.Name)

	sp, err := loadParams(g, folder)
	if err != nil {
		return err
	}
	var kpWire symmetric.KeypairWire
	if err := readJSON(encKeypairPath(folder), &kpWire); err != nil {
		return err
	}
	kp, err := symmetric.KeypairFromWire(g, kpWire)
	if err != nil {
		return err
	}
	var zWire wire.Scalar
	if err := readJSON(c.String("presentation-z"), &zWire); err != nil {
		return err
	}
	z, err := wire.DecodeScalar(g, zWire)
	if err != nil {
		return err
	}
	plaintext, err := parsePlaintext(c.String("plaintext"))
	if err != nil {
		return err
	}

	ciphertext, ep, m3, err := credential.ProveEncryption(g, sp, kp, plaintext, z, rand.Reader)
	if err != nil {
		return err
	}

	out := c.String(outFlag.Name)
	if out == "" {
		out = filepath.Join(folder, "ciphertext.json")
	}
	if err := writeJSON(out, ciphertext.ToWire(g)); err != nil {
		return err
	}
	proofOut := strings.TrimSuffix(out, ".json") + "_encryption_proof.json"
	if err := writeJSON(proofOut, ep.ToWire(g)); err != nil {
		return err
	}
	fmt.Fprintf(output, "ciphertext -> %s (proof -> %s)\nm3 (keep private, needed to decrypt): %s\n",
		out, proofOut, hex.EncodeToString(g.CompressScalar(m3)))
	return nil
}

func verifyEncryptionCmd(c *cli.Context) error {
	g := group.New()
	folder := c.String(folderFlag.Name)

	sp, err := loadParams(g, folder)
	if err != nil {
		return err
	}
	var ctWire symmetric.CiphertextWire
	if err := readJSON(c.String("ciphertext"), &ctWire); err != nil {
		return err
	}
	ciphertext, err := symmetric.CiphertextFromWire(g, ctWire)
	if err != nil {
		return err
	}
	var epWire credential.EncryptionProofWire
	if err := readJSON(c.String("proof"), &epWire); err != nil {
		return err
	}
	ep, err := credential.EncryptionProofFromWire(g, epWire)
	if err != nil {
		return err
	}

	if err := credential.VerifyEncryption(g, sp, ciphertext, ep); err != nil {
		return err
	}
	fmt.Fprintln(output, "encryption proof OK")
	return nil
}

func decryptCmd(c *cli.Context) error {
	g := group.New()
	folder := c.String(folderFlag.Name)

	var kpWire symmetric.KeypairWire
	if err := readJSON(encKeypairPath(folder), &kpWire); err != nil {
		return err
	}
	kp, err := symmetric.KeypairFromWire(g, kpWire)
	if err != nil {
		return err
	}
	var ctWire symmetric.CiphertextWire
	if err := readJSON(c.String("ciphertext"), &ctWire); err != nil {
		return err
	}
	ciphertext, err := symmetric.CiphertextFromWire(g, ctWire)
	if err != nil {
		return err
	}
	m3Bytes, err := hex.DecodeString(c.String("m3"))
	if err != nil {
		return err
	}
	m3, err := g.DecompressScalar(m3Bytes)
	if err != nil {
		return err
	}

	plaintext, err := kp.Decrypt(g, ciphertext, m3)
	if err != nil {
		return err
	}
	fmt.Fprintf(output, "plaintext: %s\n", string(plaintext[:]))
	return nil
}

func metricsServerCmd(c *cli.Context) error {
	logger := sessionLogger
	listener, err := metrics.Start(logger, c.String("listen"), pprofhandler.WithProfile())
	if err != nil {
		return err
	}
	defer listener.Close()

	logger.Infow("metrics server running", "addr", listener.Addr().String())
	select {}
}
