// Copyright 2025 walteh LLC
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

/*
Package status tracks the disposition of document copies.

	+-----------+        +-----------+
	|  copier   | -----> |  Tracker  |
	|  (tasks)  |        | (entries) |
	+-----------+        +-----+-----+
	                           |
	                     +-----+-----+
	                     | Formatter |
	                     |  (UI/UX)  |
	                     +-----------+

🎯 Purpose:
- Records each scheduled copy as Pending
- Moves it to Succeeded or Failed when the copy reports its terminal stage
- Reports progress in a user friendly format

A disposition only ever moves away from Pending once. Late or duplicate
terminal reports are ignored.
*/
package status
