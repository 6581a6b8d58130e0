package crawler

// evalScript runs in the page after load and settles. It collects everything
// that needs live computed styles or loaded image state; static structure
// (links, forms, scripts, meta) comes from parsing the HTML afterwards.
const evalScript = `(() => {
	const result = {};

	const fontSet = new Set();
	document.querySelectorAll('h1,h2,h3,h4,p,a,span,li,button,label,input').forEach(el => {
		const ff = getComputedStyle(el).fontFamily;
		if (ff) ff.split(',').forEach(f => fontSet.add(f.trim().replace(/['"]/g, '')));
	});
	result.fonts = [...fontSet];

	result.images = [...document.querySelectorAll('img')].map(img => ({
		src: img.src || img.dataset.src || '',
		alt: img.alt || '',
		width: img.width,
		height: img.height,
		natural_width: img.naturalWidth,
		natural_height: img.naturalHeight,
		format: (img.src || '').split('?')[0].split('.').pop().toLowerCase(),
		has_transparency: (img.src || '').toLowerCase().endsWith('.png'),
	}));

	const stickyEls = [];
	document.querySelectorAll('*').forEach(el => {
		const pos = getComputedStyle(el).position;
		if (pos === 'fixed' || pos === 'sticky') {
			const text = (el.textContent || '').trim().substring(0, 200);
			if (text.length > 0 && text.length < 500) {
				stickyEls.push({
					tag: el.tagName.toLowerCase(),
					id: el.id || '',
					classes: typeof el.className === 'string' ? el.className : '',
					text: text,
					position: pos,
				});
			}
		}
	});
	result.sticky_elements = stickyEls;

	result.cta_buttons = [...document.querySelectorAll(
		'button, a.btn, a.cta, [class*="cta"], [class*="button"], input[type="submit"]'
	)].map(el => ({
		text: (el.textContent || el.value || '').trim().substring(0, 200),
		tag: el.tagName.toLowerCase(),
		href: el.href || '',
		type: el.type || '',
	}));

	return result;
})()`
