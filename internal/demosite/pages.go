package demosite

// PageDefinition is one demo page with multiple structural versions.
// Switching versions changes the form skeleton, which is what monitors key
// their rescans on.
type PageDefinition struct {
	Path        string
	Description string
	Versions    map[int]string // version -> HTML
}

// AllPages returns the demo pages. Each form mixes fields a scanner should
// pick up (email, name, address...) with fields it should skip (password,
// promo code, search, captcha).
func AllPages() []PageDefinition {
	return []PageDefinition{
		{
			Path:        "/signup",
			Description: "Account signup form; v2 adds phone and company fields",
			Versions: map[int]string{
				1: `<!DOCTYPE html>
<html>
<head><title>Sign Up</title></head>
<body>
  <h1>Create your account</h1>
  <form class="signup-form" action="/signup" method="post">
    <label for="email">Email address</label>
    <input type="email" id="email" name="email" autocomplete="email" placeholder="you@example.com">
    <label for="first-name">First name</label>
    <input type="text" id="first-name" name="first_name" autocomplete="given-name">
    <label for="last-name">Last name</label>
    <input type="text" id="last-name" name="last_name" autocomplete="family-name">
    <label for="password">Password</label>
    <input type="password" id="password" name="password" autocomplete="new-password">
    <input type="hidden" name="csrf_token" value="tok-123">
    <button type="submit">Sign up</button>
  </form>
</body>
</html>`,
				2: `<!DOCTYPE html>
<html>
<head><title>Sign Up</title></head>
<body>
  <h1>Create your account</h1>
  <form class="signup-form" action="/signup" method="post">
    <label for="email">Email address</label>
    <input type="email" id="email" name="email" autocomplete="email" placeholder="you@example.com">
    <label for="first-name">First name</label>
    <input type="text" id="first-name" name="first_name" autocomplete="given-name">
    <label for="last-name">Last name</label>
    <input type="text" id="last-name" name="last_name" autocomplete="family-name">
    <label for="phone">Phone number</label>
    <input type="tel" id="phone" name="phone" autocomplete="tel">
    <label for="company">Company (optional)</label>
    <input type="text" id="company" name="company" autocomplete="organization">
    <label for="password">Password</label>
    <input type="password" id="password" name="password" autocomplete="new-password">
    <input type="hidden" name="csrf_token" value="tok-123">
    <button type="submit">Sign up</button>
  </form>
</body>
</html>`,
			},
		},
		{
			Path:        "/checkout",
			Description: "Checkout with shipping address; payment fields are skipped by scanners",
			Versions: map[int]string{
				1: `<!DOCTYPE html>
<html>
<head><title>Checkout</title></head>
<body>
  <h1>Shipping details</h1>
  <form id="checkout-form" action="/checkout" method="post">
    <label for="full-name">Full name</label>
    <input type="text" id="full-name" name="full_name" autocomplete="name">
    <label for="address1">Street address</label>
    <input type="text" id="address1" name="address_line1" autocomplete="address-line1">
    <label for="city">City</label>
    <input type="text" id="city" name="city" autocomplete="address-level2">
    <label for="postal">Postal code</label>
    <input type="text" id="postal" name="postal_code" autocomplete="postal-code">
    <label for="country">Country</label>
    <select id="country" name="country" autocomplete="country">
      <option>United States</option>
      <option>Canada</option>
    </select>
    <label for="cvv">Card security code</label>
    <input type="text" id="cvv" name="cvv">
    <label for="promo">Promo code</label>
    <input type="text" id="promo" name="promo_code">
    <button type="submit">Place order</button>
  </form>
</body>
</html>`,
				2: `<!DOCTYPE html>
<html>
<head><title>Checkout</title></head>
<body>
  <h1>Shipping details</h1>
  <form id="checkout-form" action="/checkout" method="post">
    <label for="full-name">Full name</label>
    <input type="text" id="full-name" name="full_name" autocomplete="name">
    <label for="address1">Street address</label>
    <input type="text" id="address1" name="address_line1" autocomplete="address-line1">
    <label for="address2">Apartment, suite, etc.</label>
    <input type="text" id="address2" name="address_line2" autocomplete="address-line2">
    <label for="city">City</label>
    <input type="text" id="city" name="city" autocomplete="address-level2">
    <label for="state">State</label>
    <input type="text" id="state" name="state" autocomplete="address-level1">
    <label for="postal">Postal code</label>
    <input type="text" id="postal" name="postal_code" autocomplete="postal-code">
    <label for="country">Country</label>
    <select id="country" name="country" autocomplete="country">
      <option>United States</option>
      <option>Canada</option>
    </select>
    <label for="phone">Delivery phone</label>
    <input type="tel" id="phone" name="phone" autocomplete="tel">
    <label for="cvv">Card security code</label>
    <input type="text" id="cvv" name="cvv">
    <button type="submit">Place order</button>
  </form>
</body>
</html>`,
			},
		},
		{
			Path:        "/contact",
			Description: "Contact form; the message textarea rides on form context",
			Versions: map[int]string{
				1: `<!DOCTYPE html>
<html>
<head><title>Contact Us</title></head>
<body>
  <h1>Get in touch</h1>
  <form class="contact-form" action="/contact" method="post">
    <label for="name">Your name</label>
    <input type="text" id="name" name="name">
    <label for="email">Email</label>
    <input type="email" id="email" name="email">
    <label for="message">Message</label>
    <textarea id="message" name="message" rows="6"></textarea>
    <button type="submit">Send</button>
  </form>
</body>
</html>`,
				2: `<!DOCTYPE html>
<html>
<head><title>Contact Us</title></head>
<body>
  <h1>Get in touch</h1>
  <form class="contact-form" action="/contact" method="post">
    <label for="name">Your name</label>
    <input type="text" id="name" name="name">
    <label for="email">Email</label>
    <input type="email" id="email" name="email">
    <label for="phone">Phone (optional)</label>
    <input type="tel" id="phone" name="phone">
    <label for="message">Message</label>
    <textarea id="message" name="message" rows="6"></textarea>
    <button type="submit">Send</button>
  </form>
</body>
</html>`,
			},
		},
		{
			Path:        "/profile",
			Description: "Profile editor with username, birthday and website",
			Versions: map[int]string{
				1: `<!DOCTYPE html>
<html>
<head><title>Your Profile</title></head>
<body>
  <h1>Edit profile</h1>
  <form id="profile-form" action="/profile" method="post">
    <label for="username">Username</label>
    <input type="text" id="username" name="username" autocomplete="username">
    <label for="bday">Birthday</label>
    <input type="date" id="bday" name="birthday" autocomplete="bday">
    <label for="website">Website</label>
    <input type="url" id="website" name="website" autocomplete="url">
    <button type="submit">Save</button>
  </form>
</body>
</html>`,
				2: `<!DOCTYPE html>
<html>
<head><title>Your Profile</title></head>
<body>
  <h1>Edit profile</h1>
  <form id="profile-form" action="/profile" method="post">
    <label for="username">Username</label>
    <input type="text" id="username" name="username" autocomplete="username">
    <label for="display-name">Display name</label>
    <input type="text" id="display-name" name="display_name" autocomplete="name">
    <label for="bday">Birthday</label>
    <input type="date" id="bday" name="birthday" autocomplete="bday">
    <label for="website">Website</label>
    <input type="url" id="website" name="website" autocomplete="url">
    <button type="submit">Save</button>
  </form>
</body>
</html>`,
			},
		},
		{
			Path:        "/search",
			Description: "Search page; nothing here should be detected",
			Versions: map[int]string{
				1: `<!DOCTYPE html>
<html>
<head><title>Search</title></head>
<body>
  <form class="search-form" role="search" action="/search" method="get">
    <label for="q">Search</label>
    <input type="search" id="q" name="q" placeholder="Search products">
    <button type="submit">Go</button>
  </form>
</body>
</html>`,
			},
		},
	}
}
