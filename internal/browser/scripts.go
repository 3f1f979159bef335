/*
Copyright © 2023 Zak Reynolds <zak.reynolds@zakjr.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/
package browser

// MaskAutomationScript runs before any page script and hides the properties
// detectors most often probe.
const MaskAutomationScript = `(() => {
	Object.defineProperty(navigator, 'webdriver', { get: () => undefined });
	Object.defineProperty(navigator, 'languages', { get: () => ['en-US', 'en'] });
	Object.defineProperty(navigator, 'plugins', { get: () => [1, 2, 3, 4, 5] });
	window.chrome = window.chrome || { runtime: {} };
	const query = window.navigator.permissions && window.navigator.permissions.query;
	if (query) {
		window.navigator.permissions.query = (p) =>
			p && p.name === 'notifications'
				? Promise.resolve({ state: Notification.permission })
				: query(p);
	}
})();`

const titleScript = `() => document.title || ""`

const bodyTextScript = `() => document.body ? document.body.innerText : ""`
