/*
 *
 * Copyright 2023 The Compomics Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 */

/*

# compomics utilities

Building blocks of mass spectrometry identification workflows.

## Layout

1, db: ObjectsDB, an object database persisting identification objects
(peptides, proteins, spectrum matches) by string key on an embedded rocksdb
store, with a write back LRU cache in front of it. Access is serialized by a
single permit; concurrent loads of the same object are collapsed.

2, experiment/biology: peptides with their modifications and keys, amino
acids, post-translational modifications with their factory, enzymes with
their factory and digestion.

3, experiment/biology/ions: theoretic peptide fragment ions.

4, software: command line argument helpers and the preferences locating the
companion applications (PeptideShaker, Reporter).

5, server: admin http api of a running database, /stats, /count and
/metrics.

6, cmd: the compomics binary.

## Peptide keys

A peptide key is the sequence followed by the sorted masses of its variable
modifications, each prefixed by "_". Confidently localized modifications
carry their site after "-ATAA-":

	PEPMK_15.994915
	SPMK_15.994915-ATAA-3_79.966331

Objects are stored under the 64 bit long key of their key, see
db.CreateLongKey.

*/

package utilities
