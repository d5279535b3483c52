// Command oracleinspect drives a single SubmitRRSet or DeleteRRSet
// call against a freshly constructed Oracle and prints the outcome.
// Every field is passed as a hex-encoded wire-format blob, so it is
// meant for checking a captured submission or deletion (e.g. something
// a live service rejected) without writing a Go test for it.
//
// Because the oracle holds no persistent state across invocations,
// "check-submit" only directly exercises the first-hop case, where
// proof is exactly the configured anchors; deeper chain links need
// the chain replayed one submission at a time.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"

	oracle "github.com/dnssec-oracle/core"
	"github.com/dnssec-oracle/core/registry"
	"github.com/dnssec-oracle/core/registry/verifiers"
)

func main() {
	if err := run(os.Args, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	submitCmd := flag.NewFlagSet("check-submit", flag.ExitOnError)
	submitAnchors := submitCmd.String("anchors", "", "hex-encoded DS trust anchor RRSET")
	submitNow := submitCmd.Uint64("now", 0, "wall-clock time in seconds")
	submitInput := submitCmd.String("input", "", "hex-encoded RRSIG prefix + covered RRs")
	submitSig := submitCmd.String("sig", "", "hex-encoded RRSIG signature")
	submitProof := submitCmd.String("proof", "", "hex-encoded DNSKEY or DS proof RRSET")

	deleteCmd := flag.NewFlagSet("check-delete", flag.ExitOnError)
	deleteAnchors := deleteCmd.String("anchors", "", "hex-encoded DS trust anchor RRSET")
	deleteNow := deleteCmd.Uint64("now", 0, "wall-clock time in seconds")
	deleteType := deleteCmd.Uint("type", 0, "record type being deleted")
	deleteName := deleteCmd.String("name", "", "hex-encoded wire-format owner name")
	deleteNsec := deleteCmd.String("nsec", "", "hex-encoded RRSIG prefix + NSEC(3) RR")
	deleteSig := deleteCmd.String("sig", "", "hex-encoded RRSIG signature")
	deleteProof := deleteCmd.String("proof", "", "hex-encoded DNSKEY or DS proof RRSET")

	if len(args) < 2 {
		return fmt.Errorf("expected 'check-submit' or 'check-delete' subcommands")
	}

	switch args[1] {
	case "check-submit":
		if err := submitCmd.Parse(args[2:]); err != nil {
			return fmt.Errorf("failed to parse check-submit flags: %w", err)
		}
		return checkSubmit(out, *submitAnchors, *submitNow, *submitInput, *submitSig, *submitProof)
	case "check-delete":
		if err := deleteCmd.Parse(args[2:]); err != nil {
			return fmt.Errorf("failed to parse check-delete flags: %w", err)
		}
		return checkDelete(out, *deleteAnchors, *deleteNow, uint16(*deleteType), *deleteName, *deleteNsec, *deleteSig, *deleteProof)
	default:
		return fmt.Errorf("expected 'check-submit' or 'check-delete' subcommands")
	}
}

func newInspectOracle(anchorsHex string, now uint64) (*oracle.Oracle, error) {
	anchors, err := hex.DecodeString(anchorsHex)
	if err != nil {
		return nil, fmt.Errorf("decoding anchors: %w", err)
	}
	r := registry.New()
	verifiers.RegisterDefaults(r)
	return oracle.New(anchors, now, oracle.Identity("oracleinspect"), oracle.WithRegistry(r)), nil
}

func checkSubmit(out io.Writer, anchorsHex string, now uint64, inputHex, sigHex, proofHex string) error {
	o, err := newInspectOracle(anchorsHex, now)
	if err != nil {
		return err
	}
	input, err := hex.DecodeString(inputHex)
	if err != nil {
		return fmt.Errorf("decoding input: %w", err)
	}
	sig, err := hex.DecodeString(sigHex)
	if err != nil {
		return fmt.Errorf("decoding sig: %w", err)
	}
	proof, err := hex.DecodeString(proofHex)
	if err != nil {
		return fmt.Errorf("decoding proof: %w", err)
	}

	if err := o.SubmitRRSet(now, input, sig, proof); err != nil {
		fmt.Fprintf(out, "rejected: %v\n", err)
		return err
	}
	fmt.Fprintln(out, "accepted")
	return nil
}

func checkDelete(out io.Writer, anchorsHex string, now uint64, deleteType uint16, nameHex, nsecHex, sigHex, proofHex string) error {
	o, err := newInspectOracle(anchorsHex, now)
	if err != nil {
		return err
	}
	name, err := hex.DecodeString(nameHex)
	if err != nil {
		return fmt.Errorf("decoding name: %w", err)
	}
	nsec, err := hex.DecodeString(nsecHex)
	if err != nil {
		return fmt.Errorf("decoding nsec: %w", err)
	}
	sig, err := hex.DecodeString(sigHex)
	if err != nil {
		return fmt.Errorf("decoding sig: %w", err)
	}
	proof, err := hex.DecodeString(proofHex)
	if err != nil {
		return fmt.Errorf("decoding proof: %w", err)
	}

	if err := o.DeleteRRSet(now, deleteType, name, nsec, sig, proof); err != nil {
		fmt.Fprintf(out, "rejected: %v\n", err)
		return err
	}
	fmt.Fprintln(out, "accepted")
	return nil
}
