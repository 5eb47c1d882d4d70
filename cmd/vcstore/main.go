// Copyright 2026 The VCStore Authors
// This file is part of VCStore.
//
// VCStore is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// VCStore is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with VCStore. If not, see <http://www.gnu.org/licenses/>.

// Command vcstore is a small interactive demo of the collection engine
// against an in-memory vat store: every invocation starts a fresh
// process-local store, so it is meant for exercising the wiring, not
// for persistence across runs.
package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/turbovault/vcstore/codec"
	"github.com/turbovault/vcstore/collection"
	"github.com/turbovault/vcstore/internal/logging"
	"github.com/turbovault/vcstore/kind"
	"github.com/turbovault/vcstore/kv"
	"github.com/turbovault/vcstore/marshal"
	"github.com/turbovault/vcstore/metrics"
	"github.com/turbovault/vcstore/ordinal"
	"github.com/turbovault/vcstore/pattern"
	"github.com/turbovault/vcstore/refs"
)

// session bundles one process-lifetime wiring of the engine so the CLI
// subcommands share state the way a single embedding host process would.
type session struct {
	store   *kv.MemStore
	manager *refs.MemManager
	factory *collection.Factory
	current *collection.Collection
}

func newSession() (*session, error) {
	store := kv.NewMemStore()
	manager := refs.NewMemManager()
	ordinals := ordinal.New(store)
	log := logging.New()
	rec := metrics.NewRecorder(prometheus.NewRegistry())

	kinds := kind.New(store, kind.NewSequentialExportIDAllocator(), manager, log)
	factory := collection.NewFactory(store, ordinals, manager, marshal.JSONMarshaler{}, kinds, rec, log)
	if err := kinds.Init(factory.Reanimators()); err != nil {
		return nil, fmt.Errorf("initializing kind registry: %w", err)
	}
	return &session{store: store, manager: manager, factory: factory}, nil
}

func (s *session) requireCurrent() (*collection.Collection, error) {
	if s.current == nil {
		return nil, fmt.Errorf("no collection open; run 'make' first")
	}
	return s.current, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	sess, sessErr := newSession()

	root := &cobra.Command{
		Use:   "vcstore",
		Short: "Inspect the collection engine against an in-memory vat store",
	}

	root.PersistentPreRunE = func(*cobra.Command, []string) error {
		return sessErr
	}

	root.AddCommand(
		newMakeCmd(sess),
		newSetCmd(sess),
		newGetCmd(sess),
		newDeleteCmd(sess),
		newDumpCmd(sess),
	)
	return root
}

func newMakeCmd(sess *session) *cobra.Command {
	var kindName string
	cmd := &cobra.Command{
		Use:   "make [label]",
		Short: "Create a collection and make it current",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			externalID, c, err := sess.factory.MakeCollection(args[0], kindName, pattern.Scalar())
			if err != nil {
				return err
			}
			sess.current = c
			fmt.Fprintln(cmd.OutOrStdout(), externalID)
			return nil
		},
	}
	cmd.Flags().StringVar(&kindName, "kind", kind.ScalarMapStore, "one of scalarMapStore, scalarWeakMapStore, scalarSetStore, scalarWeakSetStore")
	return cmd
}

func newSetCmd(sess *session) *cobra.Command {
	return &cobra.Command{
		Use:   "set [string-key] [string-value]",
		Short: "Set a string-keyed, string-valued entry on the current collection",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := sess.requireCurrent()
			if err != nil {
				return err
			}
			key := codec.String(args[0])
			if c.Has(key) {
				return c.Set(key, args[1])
			}
			return c.Init(key, args[1])
		},
	}
}

func newGetCmd(sess *session) *cobra.Command {
	return &cobra.Command{
		Use:   "get [string-key]",
		Short: "Get a string-keyed entry from the current collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := sess.requireCurrent()
			if err != nil {
				return err
			}
			v, err := c.Get(codec.String(args[0]))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	}
}

func newDeleteCmd(sess *session) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [string-key]",
		Short: "Delete a string-keyed entry from the current collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := sess.requireCurrent()
			if err != nil {
				return err
			}
			return c.Delete(codec.String(args[0]))
		},
	}
}

func newDumpCmd(sess *session) *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Walk the current collection's entries and print them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := sess.requireCurrent()
			if err != nil {
				return err
			}
			it, err := c.Entries(nil, nil)
			if err != nil {
				return err
			}
			for {
				key, value, ok, err := it.Next()
				if err != nil {
					return err
				}
				if !ok {
					break
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s => %v\n", describeKey(key), value)
			}
			return nil
		},
	}
}

// describeKey renders a key for human inspection, minting a demo UUID
// slot label for remotables the CLI itself never assigned one for.
func describeKey(k codec.Key) string {
	switch k.Kind {
	case codec.KindString:
		return k.Str
	case codec.KindNumber:
		return fmt.Sprintf("%v", k.Number)
	case codec.KindRemotable:
		if k.Slot != "" {
			return k.Slot
		}
		return "o+" + uuid.NewString()
	default:
		return fmt.Sprintf("%+v", k)
	}
}
