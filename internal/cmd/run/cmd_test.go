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

package run

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("run command flags", func() {
	It("bounds per-table calls at ten minutes by default", func() {
		flag := NewCmd().Flags().Lookup("call-timeout")
		Expect(flag).ToNot(BeNil())
		Expect(flag.DefValue).To(Equal("10m0s"))
	})

	It("takes the per-table call bound from CALL_TIMEOUT_MS", func() {
		GinkgoT().Setenv("CALL_TIMEOUT_MS", "1800000")

		flag := NewCmd().Flags().Lookup("call-timeout")
		Expect(flag.DefValue).To(Equal("30m0s"))
	})
})
