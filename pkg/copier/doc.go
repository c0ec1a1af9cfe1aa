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
Package copier copies templates into place in the background.

	+----------+   Schedule   +----------+   stages   +----------+
	|  plugin  | -----------> |  worker  | ---------> | run loop |
	+----------+              +----------+            +-----+----+
	                                                        |
	                                                  +-----+-----+
	                                                  |  deliver  |
	                                                  +-----------+

🎯 Purpose:
- Schedule returns at once; one goroutine copies each template
- Stage events are delivered in order on the run loop
- Only the complete stage triggers post-processing: hide the extension,
  then ask the file manager to rename the new item

Failed copies are logged and marked Failed. They are not retried and partial
results are not cleaned up.
*/
package copier
