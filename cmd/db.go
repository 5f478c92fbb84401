// Copyright 2023 The Compomics Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
// implied. See the License for the specific language governing
// permissions and limitations under the License.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/cubefs/cubefs/blobstore/common/trace"
	"github.com/cubefs/cubefs/blobstore/util/log"
	"github.com/spf13/cobra"

	"github.com/compomics/utilities/db"
	"github.com/compomics/utilities/experiment/biology"
	"github.com/compomics/utilities/server"
	"github.com/compomics/utilities/util/limiter"
	"github.com/compomics/utilities/waiting"
)

const peptideClass = "Peptide"

func init() {
	db.RegisterClass(peptideClass, func() db.IdObject { return &biology.Peptide{} })
}

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the peptides objects database",
}

var dbImportCmd = &cobra.Command{
	Use:   "import [peptides.json]",
	Short: "Store the peptides of a json array, keyed by peptide key",
	Args:  cobra.ExactArgs(1),
	RunE:  runDBImport,
}

var dbGetCmd = &cobra.Command{
	Use:   "get [key]...",
	Short: "Print stored peptides as json",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDBGet,
}

var dbCountCmd = &cobra.Command{
	Use:   "count [class]",
	Short: "Count the stored objects of a class",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDBCount,
}

var dbRemoveCmd = &cobra.Command{
	Use:   "remove [key]...",
	Short: "Remove stored objects",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDBRemove,
}

var dbServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Open the database and serve its admin http api until interrupted",
	Args:  cobra.NoArgs,
	RunE:  runDBServe,
}

func init() {
	dbImportCmd.Flags().Bool("progress", false, "log the import progress")

	dbCmd.AddCommand(dbImportCmd, dbGetCmd, dbCountCmd, dbRemoveCmd, dbServeCmd)
	rootCmd.AddCommand(dbCmd)
}

func openDB(ctx context.Context) (*db.ObjectsDB, error) {
	dbCfg := cfg.DB
	return db.Open(ctx, cfg.DBFolder, cfg.DBName, cfg.Overwrite, &dbCfg)
}

// withDB runs fn on the configured database and closes it afterwards.
func withDB(cmd *cobra.Command, fn func(ctx context.Context, objectsDB *db.ObjectsDB) error) (err error) {
	span, ctx := trace.StartSpanFromContext(cmd.Context(), cmd.Name())
	defer span.Finish()

	objectsDB, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := objectsDB.Close(ctx); err == nil {
			err = cerr
		}
	}()
	return fn(ctx, objectsDB)
}

func runDBImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()
	var peptides []*biology.Peptide
	if err = json.NewDecoder(limiter.NewReader(cmd.Context(), f, cfg.ImportMBPS)).Decode(&peptides); err != nil {
		return err
	}
	objects := make(map[string]db.IdObject, len(peptides))
	for _, p := range peptides {
		objects[p.Key()] = p
	}

	progress, _ := cmd.Flags().GetBool("progress")
	handler := waiting.NewLogHandler("import", time.Second)
	return withDB(cmd, func(ctx context.Context, objectsDB *db.ObjectsDB) error {
		if err := objectsDB.InsertObjects(ctx, objects, handler, progress); err != nil {
			return err
		}
		log.Infof("imported %d peptides into %s", len(objects), objectsDB.Path())
		return nil
	})
}

func runDBGet(cmd *cobra.Command, args []string) error {
	return withDB(cmd, func(ctx context.Context, objectsDB *db.ObjectsDB) error {
		enc := json.NewEncoder(cmd.OutOrStdout())
		for _, key := range args {
			obj, err := objectsDB.RetrieveObjectByKey(ctx, key)
			if err != nil {
				return err
			}
			if obj == nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s not found\n", key)
				continue
			}
			if err = enc.Encode(obj); err != nil {
				return err
			}
		}
		return nil
	})
}

func runDBCount(cmd *cobra.Command, args []string) error {
	class := peptideClass
	if len(args) == 1 {
		class = args[0]
	}
	return withDB(cmd, func(ctx context.Context, objectsDB *db.ObjectsDB) error {
		n, err := objectsDB.Number(ctx, class)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), n)
		return nil
	})
}

func runDBRemove(cmd *cobra.Command, args []string) error {
	return withDB(cmd, func(ctx context.Context, objectsDB *db.ObjectsDB) error {
		return objectsDB.RemoveObjects(ctx, args, nil, false)
	})
}

func runDBServe(cmd *cobra.Command, args []string) error {
	registerLogLevel()
	modifyOpenFiles()

	ctx := cmd.Context()
	objectsDB, err := openDB(ctx)
	if err != nil {
		return err
	}

	httpServer := server.NewHttpServer(objectsDB, cfg.MaxConcurrentRequests)
	httpServer.Serve(":" + strconv.Itoa(int(cfg.HttpBindPort)))

	// wait for signal
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT)
	<-ch

	httpServer.Stop()
	return objectsDB.Close(ctx)
}
