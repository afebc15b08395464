/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
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

package errors

// Code ranges, one block per package of this server. Each package registers
// its own codes starting at its Min constant via RegisterIdFctMessage, the
// same way the upstream library partitions MinPkgHttpServer, MinPkgLogger, etc.
const (
	MinPkgTransport = 100
	MinPkgSocket    = 200
	MinPkgEngine    = 300
	MinPkgListener  = 400
	MinPkgFork      = 500
	MinPkgConfig    = 600
	MinPkgHttp1     = 700
	MinPkgHttp2     = 800
	MinPkgHpack     = 820
	MinPkgFastCGI   = 900
	MinPkgWebsocket = 1000
	MinPkgRequest   = 1100
	MinPkgLogger    = 1600
	MinPkgMonitor   = 2000
	MinPkgVersion   = 3300

	MinAvailable = 4000

	// MIN_AVAILABLE @Deprecated use MinAvailable constant
	MIN_AVAILABLE = MinAvailable
)
