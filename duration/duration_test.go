/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package duration_test

import (
	"encoding/json"
	"time"

	. "github.com/nabbar/webserv/duration"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

var _ = Describe("duration", func() {
	It("Parse recognizes the day notation alongside time.Duration units", func() {
		d, err := Parse("1d2h3m4s")
		Expect(err).ToNot(HaveOccurred())
		Expect(d.Days()).To(Equal(int64(1)))
		Expect(d.String()).To(Equal("1d2h3m4s"))
	})

	It("Parse accepts a bare time.Duration string with no day component", func() {
		d, err := Parse("90m")
		Expect(err).ToNot(HaveOccurred())
		Expect(d.Time()).To(Equal(90 * time.Minute))
	})

	It("Parse rejects a malformed duration string", func() {
		_, err := Parse("not-a-duration")
		Expect(err).To(HaveOccurred())
	})

	It("Seconds/Minutes/Hours/Days build the expected time.Duration", func() {
		Expect(Seconds(30).Time()).To(Equal(30 * time.Second))
		Expect(Minutes(5).Time()).To(Equal(5 * time.Minute))
		Expect(Hours(2).Time()).To(Equal(2 * time.Hour))
		Expect(Days(3).Time()).To(Equal(72 * time.Hour))
	})

	It("ParseFloat64 converts seconds to a Duration", func() {
		Expect(ParseFloat64(5).Time()).To(Equal(5 * time.Second))
	})

	It("Marshal/Unmarshal JSON/YAML/TOML/Text roundtrip", func() {
		type holder struct {
			Timeout Duration `json:"timeout" yaml:"timeout" toml:"timeout"`
		}

		v := holder{Timeout: Days(1) + Hours(2)}

		b, err := json.Marshal(v)
		Expect(err).ToNot(HaveOccurred())
		var v2 holder
		Expect(json.Unmarshal(b, &v2)).To(Succeed())
		Expect(v2).To(Equal(v))

		b, err = yaml.Marshal(v)
		Expect(err).ToNot(HaveOccurred())
		var v3 holder
		Expect(yaml.Unmarshal(b, &v3)).To(Succeed())
		Expect(v3).To(Equal(v))

		b, err = toml.Marshal(v)
		Expect(err).ToNot(HaveOccurred())
		var v4 holder
		Expect(toml.Unmarshal(b, &v4)).To(Succeed())
		Expect(v4).To(Equal(v))

		b, err = v.Timeout.MarshalText()
		Expect(err).ToNot(HaveOccurred())
		var v5 Duration
		Expect(v5.UnmarshalText(b)).To(Succeed())
		Expect(v5).To(Equal(v.Timeout))
	})

	It("TruncateSeconds rounds toward zero", func() {
		d, err := Parse("1500ms")
		Expect(err).ToNot(HaveOccurred())
		Expect(d.TruncateSeconds().Time()).To(Equal(1 * time.Second))
	})

	It("TruncateDays keeps only whole-day components", func() {
		d, err := Parse("2d5h")
		Expect(err).ToNot(HaveOccurred())
		Expect(d.TruncateDays().Time()).To(Equal(48 * time.Hour))
	})
})
