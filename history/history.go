// go-addone
// Copyright (c) 2026 The OpenAccel Contributors.
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package history records self-test outcomes in a local bolt database
// so bring-up regressions can be spotted across runs.
package history

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	addone "github.com/openaccel/go-addone"
)

const bucketName = "runs"

// Entry is one recorded self-test run.
type Entry struct {
	Time      time.Time           `json:"time"`
	Transport string              `json:"transport"`
	Slots     []addone.SlotResult `json:"slots"`
	Correct   int                 `json:"correct"`
	Total     int                 `json:"total"`
	Accuracy  int                 `json:"accuracy"`
	Polls     int                 `json:"polls"`
	Passed    bool                `json:"passed"`
}

// Store is a bolt-backed run log.
type Store struct {
	db *bbolt.DB
}

// Open opens or creates the run log at path.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("open history db %s: %w", path, err)
	}
	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create history bucket: %w", err)
	}
	return &Store{db: db}, nil
}

// Append records a completed run. The key is the run timestamp, so a
// cursor walk lists runs in order.
func (s *Store) Append(transport addone.TransportType, report *addone.Report) error {
	entry := Entry{
		Time:      time.Now().UTC(),
		Transport: string(transport),
		Slots:     report.Slots,
		Correct:   report.CorrectCount(),
		Total:     report.Len(),
		Accuracy:  report.Accuracy(),
		Polls:     report.Polls,
		Passed:    report.Passed(),
	}
	data, err := json.Marshal(&entry)
	if err != nil {
		return fmt.Errorf("marshal history entry: %w", err)
	}
	key := []byte(entry.Time.Format(time.RFC3339Nano))
	if err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Put(key, data)
	}); err != nil {
		return fmt.Errorf("append history entry: %w", err)
	}
	return nil
}

// List returns all recorded runs, oldest first.
func (s *Store) List() ([]Entry, error) {
	var entries []Entry
	if err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).ForEach(func(_, v []byte) error {
			var entry Entry
			if err := json.Unmarshal(v, &entry); err != nil {
				return fmt.Errorf("unmarshal history entry: %w", err)
			}
			entries = append(entries, entry)
			return nil
		})
	}); err != nil {
		return nil, err
	}
	return entries, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close history db: %w", err)
	}
	return nil
}
