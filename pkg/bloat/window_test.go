/*
Copyright © contributors to CloudNativePG, established as
CloudNativePG a Series of LF Projects, LLC.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.

SPDX-License-Identifier: Apache-2.0
*/

package bloat

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("MaintenanceWindow", func() {
	It("is always open when no schedule is configured", func() {
		window := MaintenanceWindow{}
		Expect(window.IsOpen()).To(BeTrue())
		Expect(window.Next()).To(BeNil())
	})

	It("is open when every second matches and the duration is generous", func() {
		window := MaintenanceWindow{
			Schedule: "* * * * * *",
			Duration: "1h",
		}
		Expect(window.IsOpen()).To(BeTrue())
	})

	It("is closed when the schedule cannot be parsed", func() {
		window := MaintenanceWindow{
			Schedule: "not a schedule",
		}
		Expect(window.IsOpen()).To(BeFalse())
		Expect(window.Next()).To(BeNil())
	})

	It("reports the next window start for a valid schedule", func() {
		window := MaintenanceWindow{
			Schedule: "0 0 2 * * 0",
			Duration: "4h",
		}
		next := window.Next()
		Expect(next).ToNot(BeNil())
		Expect(next.Hour()).To(Equal(2))
	})

	It("falls back to UTC when the timezone is unknown", func() {
		window := MaintenanceWindow{
			Schedule: "* * * * * *",
			Duration: "1h",
			Timezone: "Mars/Olympus_Mons",
		}
		Expect(window.IsOpen()).To(BeTrue())
	})

	It("falls back to the default duration when the duration is invalid", func() {
		window := MaintenanceWindow{
			Schedule: "* * * * * *",
			Duration: "ten minutes",
		}
		Expect(window.IsOpen()).To(BeTrue())
	})
})
